package workload

// Sample programs shipped as the default workload. Each is loaded into the
// program slot of its own process.
var (
	helloWorldProgram = []string{
		"#include <iostream>",
		"int main() {",
		"    std::cout << \"Hello World!\" << std::endl;",
		"    return 0;",
		"}",
	}

	readOneProgram = []string{
		"#include <iostream>",
		"int main() {",
		"    int a = 0, b = 0;",
		"    std::cin >> a;",
		"    std::cout << a + b << std::endl;",
		"    return 0;",
		"} ",
	}

	readTwoProgram = []string{
		"#include <iostream>",
		"int main() {",
		"    int a = 0, b = 0;",
		"    std::cin >> a >> b;",
		"    std::cout << a + b << std::endl;",
		"    return 0;",
		"} ",
	}

	branchProgram = []string{
		"#include <iostream>",
		"using namespace std;",
		"int main() {",
		"    char a = 'a';",
		"    if (a == 'a')",
		"        printf(\"%c\", a);",
		"    else",
		"        printf(\"not a\");",
		"    return 0;",
		"} ",
	}

	multiplyProgram = []string{
		"#include <iostream>",
		"using namespace std;",
		"int main() {",
		"    int a = 1, b = 2;",
		"    cout << a * b << endl;",
		"    return 0;",
		"} ",
	}
)

// sampleProcess builds a ProcessSpec whose run time exceeds its program length by extra ticks.
func sampleProcess(pid int64, priority int, arrival int64, extra int64, program []string) ProcessSpec {
	runTime := int64(len(program)) + extra
	return ProcessSpec{
		PID:      pid,
		Priority: priority,
		Arrival:  arrival,
		RunTime:  &runTime,
		Program:  program,
	}
}

// SampleSpec returns the built-in five-process workload used when no workload file is given.
// Scheduler and store settings are left unset so defaults and CLI flags apply.
func SampleSpec() *Spec {
	return &Spec{
		Version: "1",
		Processes: []ProcessSpec{
			sampleProcess(1, 30, 0, 4, helloWorldProgram),
			sampleProcess(2, 20, 2, 2, readOneProgram),
			sampleProcess(3, 40, 4, 1, readTwoProgram),
			sampleProcess(4, 25, 3, 3, branchProgram),
			sampleProcess(5, 35, 1, 1, multiplyProgram),
		},
	}
}
