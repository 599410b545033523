package planglist

// ProgrammingLang describes one supported language/toolchain. The list
// is fixed; adding a language means adding an entry here, not new
// branching in the engine.
type ProgrammingLang struct {
	ID           string
	FullName     string
	SourceExt    string  // extension of submission source files
	MainFilename string  // preferred entry file inside submission/
	CompileCmd   *string // command template, nil for interpreted langs
	ExecuteCmd   string  // command template
	ToolchainBin string  // binary probed to detect a missing toolchain
	ExtraEnv     map[string]string
	Enabled      bool
}

// Command templates may use {main} (entry source file), {srcs} (all
// source files), {bin} (compiled binary name) and {dir} (the staged
// execution directory). Values of ExtraEnv may use {dir} as well.

func strPtr(s string) *string { return &s }

var languages = []ProgrammingLang{
	{
		ID:           "python",
		FullName:     "Python 3",
		SourceExt:    ".py",
		MainFilename: "main.py",
		ExecuteCmd:   "python3 {main}",
		ToolchainBin: "python3",
		Enabled:      true,
	},
	{
		ID:           "javascript",
		FullName:     "Node.js (JavaScript)",
		SourceExt:    ".js",
		MainFilename: "main.js",
		ExecuteCmd:   "node {main}",
		ToolchainBin: "node",
		Enabled:      true,
	},
	{
		ID:           "typescript",
		FullName:     "TypeScript",
		SourceExt:    ".ts",
		MainFilename: "main.ts",
		CompileCmd:   strPtr("tsc --outDir {dir} {srcs}"),
		ExecuteCmd:   "node main.js",
		ToolchainBin: "tsc",
		Enabled:      true,
	},
	{
		ID:           "c",
		FullName:     "C (gcc)",
		SourceExt:    ".c",
		MainFilename: "main.c",
		CompileCmd:   strPtr("gcc -O2 -std=c11 -o {bin} {srcs}"),
		ExecuteCmd:   "./{bin}",
		ToolchainBin: "gcc",
		Enabled:      true,
	},
	{
		ID:           "cpp",
		FullName:     "C++ (g++)",
		SourceExt:    ".cpp",
		MainFilename: "main.cpp",
		CompileCmd:   strPtr("g++ -O2 -std=c++17 -o {bin} {srcs}"),
		ExecuteCmd:   "./{bin}",
		ToolchainBin: "g++",
		Enabled:      true,
	},
	{
		ID:           "go",
		FullName:     "Go",
		SourceExt:    ".go",
		MainFilename: "main.go",
		CompileCmd:   strPtr("go build -o {bin} {srcs}"),
		ExecuteCmd:   "./{bin}",
		ToolchainBin: "go",
		ExtraEnv: map[string]string{
			"GOCACHE": "{dir}/.gocache",
		},
		Enabled: true,
	},
	{
		ID:           "java",
		FullName:     "Java",
		SourceExt:    ".java",
		MainFilename: "Main.java",
		CompileCmd:   strPtr("javac {srcs}"),
		ExecuteCmd:   "java Main",
		ToolchainBin: "javac",
		Enabled:      true,
	},
	{
		ID:           "sql",
		FullName:     "SQL (SQLite)",
		SourceExt:    ".sql",
		MainFilename: "main.sql",
		ExecuteCmd:   "sqlite3 -batch -init {main} :memory:",
		ToolchainBin: "sqlite3",
		Enabled:      true,
	},
}

// ListProgrammingLanguages returns the enabled languages.
func ListProgrammingLanguages() ([]ProgrammingLang, error) {
	res := make([]ProgrammingLang, 0, len(languages))
	for _, lang := range languages {
		if lang.Enabled {
			res = append(res, lang)
		}
	}
	return res, nil
}

// GetProgrammingLanguageById looks a language up by its short id.
func GetProgrammingLanguageById(id string) (*ProgrammingLang, error) {
	for i := range languages {
		if languages[i].ID == id && languages[i].Enabled {
			return &languages[i], nil
		}
	}
	return nil, ErrInvalidProgLang()
}
