package sim

import "strings"

// inputReadMarkers are the instruction fragments treated as a blocking input read.
var inputReadMarkers = []string{"cin >>", "scanf(", "getline("}

// IsInputRead reports whether an instruction line reads external input.
func IsInputRead(instruction string) bool {
	for _, m := range inputReadMarkers {
		if strings.Contains(instruction, m) {
			return true
		}
	}
	return false
}

// ReadVariable returns the name of the first variable an input instruction reads into,
// or "" when the instruction is not an input read.
//
//	"    std::cin >> a >> b;" -> "a"
//	"scanf(\"%d\", &x);"     -> "x"
func ReadVariable(instruction string) string {
	if i := strings.Index(instruction, ">>"); i >= 0 && strings.Contains(instruction, "cin") {
		fields := strings.Fields(instruction[i+2:])
		if len(fields) == 0 {
			return ""
		}
		return trimVariable(fields[0])
	}
	if i := strings.Index(instruction, "scanf("); i >= 0 {
		args := strings.Split(instruction[i:], ",")
		if len(args) < 2 {
			return ""
		}
		return trimVariable(strings.TrimSpace(args[1]))
	}
	if i := strings.Index(instruction, "getline("); i >= 0 {
		args := strings.Split(instruction[i:], ",")
		if len(args) < 2 {
			return ""
		}
		return trimVariable(strings.TrimSpace(args[1]))
	}
	return ""
}

func trimVariable(s string) string {
	s = strings.TrimPrefix(s, "&")
	return strings.TrimRight(s, ",;)")
}
