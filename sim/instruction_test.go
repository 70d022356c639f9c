package sim

import "testing"

func TestIsInputRead(t *testing.T) {
	tests := []struct {
		instr string
		want  bool
	}{
		{"    std::cin >> a;", true},
		{"    std::cin >> a >> b;", true},
		{"scanf(\"%d\", &x);", true},
		{"getline(std::cin, line);", true},
		{"    std::cout << a + b << std::endl;", false},
		{"    printf(\"%c\", a);", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := IsInputRead(tc.instr); got != tc.want {
			t.Errorf("IsInputRead(%q) = %v, want %v", tc.instr, got, tc.want)
		}
	}
}

func TestReadVariable(t *testing.T) {
	tests := []struct {
		instr string
		want  string
	}{
		{"    std::cin >> a;", "a"},
		{"    std::cin >> a >> b;", "a"},
		{"cin >> count, more;", "count"},
		{"scanf(\"%d\", &x);", "x"},
		{"getline(std::cin, line);", "line"},
		{"    return 0;", ""},
		{"cin >>", ""},
	}
	for _, tc := range tests {
		if got := ReadVariable(tc.instr); got != tc.want {
			t.Errorf("ReadVariable(%q) = %q, want %q", tc.instr, got, tc.want)
		}
	}
}
