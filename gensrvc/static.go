package gensrvc

import (
	"context"
	"fmt"

	"github.com/devtutor/backend/fslab"
	"github.com/devtutor/backend/planglist"
)

// StaticGen is the offline fallback generator. It ships a minimal
// greeting lab with a single trivial test case, enough to keep lab
// creation working when the live generator is down.
type StaticGen struct{}

const staticExpected = "Hello, lab!\n"

type staticTemplate struct {
	full   string
	bugfix string
	fill   string
}

var staticTemplates = map[string]staticTemplate{
	"python": {
		full:   "# Print the greeting \"Hello, lab!\" to standard output.\n",
		bugfix: "print(\"Hello, world!\")\n",
		fill:   "greeting = \"\"  # TODO: set the greeting to \"Hello, lab!\"\nprint(greeting)\n",
	},
	"javascript": {
		full:   "// Print the greeting \"Hello, lab!\" to standard output.\n",
		bugfix: "console.log(\"Hello, world!\");\n",
		fill:   "const greeting = \"\"; // TODO: set the greeting to \"Hello, lab!\"\nconsole.log(greeting);\n",
	},
	"typescript": {
		full:   "// Print the greeting \"Hello, lab!\" to standard output.\n",
		bugfix: "const greeting: string = \"Hello, world!\";\nconsole.log(greeting);\n",
		fill:   "const greeting: string = \"\"; // TODO: set the greeting to \"Hello, lab!\"\nconsole.log(greeting);\n",
	},
	"c": {
		full:   "#include <stdio.h>\n\nint main(void) {\n    /* Print the greeting \"Hello, lab!\" followed by a newline. */\n    return 0;\n}\n",
		bugfix: "#include <stdio.h>\n\nint main(void) {\n    printf(\"Hello, world!\\n\");\n    return 0;\n}\n",
		fill:   "#include <stdio.h>\n\nint main(void) {\n    const char *greeting = \"\"; /* TODO: set the greeting */\n    printf(\"%s\\n\", greeting);\n    return 0;\n}\n",
	},
	"cpp": {
		full:   "#include <iostream>\n\nint main() {\n    // Print the greeting \"Hello, lab!\" followed by a newline.\n    return 0;\n}\n",
		bugfix: "#include <iostream>\n\nint main() {\n    std::cout << \"Hello, world!\" << std::endl;\n    return 0;\n}\n",
		fill:   "#include <iostream>\n\nint main() {\n    std::string greeting; // TODO: set the greeting\n    std::cout << greeting << std::endl;\n    return 0;\n}\n",
	},
	"go": {
		full:   "package main\n\nfunc main() {\n\t// Print the greeting \"Hello, lab!\" to standard output.\n}\n",
		bugfix: "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"Hello, world!\")\n}\n",
		fill:   "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tgreeting := \"\" // TODO: set the greeting\n\tfmt.Println(greeting)\n}\n",
	},
	"java": {
		full:   "public class Main {\n    public static void main(String[] args) {\n        // Print the greeting \"Hello, lab!\" to standard output.\n    }\n}\n",
		bugfix: "public class Main {\n    public static void main(String[] args) {\n        System.out.println(\"Hello, world!\");\n    }\n}\n",
		fill:   "public class Main {\n    public static void main(String[] args) {\n        String greeting = \"\"; // TODO: set the greeting\n        System.out.println(greeting);\n    }\n}\n",
	},
	"sql": {
		full:   "-- Write a SELECT that returns the single text value 'Hello, lab!'.\n",
		bugfix: "SELECT 'Hello, world!';\n",
		fill:   "-- TODO: replace the empty string with the expected greeting\nSELECT '';\n",
	},
}

func (StaticGen) GenerateLab(ctx context.Context, unit UnitCtx, language string, kind string) (fslab.Artifacts, error) {
	lang, err := planglist.GetProgrammingLanguageById(language)
	if err != nil {
		return fslab.Artifacts{}, err
	}
	tpl, ok := staticTemplates[lang.ID]
	if !ok {
		return fslab.Artifacts{}, fmt.Errorf("no static template for language: %s", lang.ID)
	}

	var starter string
	switch kind {
	case fslab.KindBugfix:
		starter = tpl.bugfix
	case fslab.KindFill:
		starter = tpl.fill
	default:
		starter = tpl.full
	}

	statement := fmt.Sprintf(
		"# Greeting Lab\n\nWrite a %s program that prints exactly:\n\n```\nHello, lab!\n```\n\n"+
			"Edit the files under `submission/` and submit when ready.\n",
		lang.FullName)

	return fslab.Artifacts{
		Title:     "Greeting Lab",
		Statement: statement,
		StarterFiles: []fslab.ArtifactFile{
			{RelPath: lang.MainFilename, Content: []byte(starter)},
		},
		TestFiles: []fslab.ArtifactFile{
			{RelPath: "t01.out", Content: []byte(staticExpected)},
		},
		TestPlan: []fslab.TestCase{
			{
				ID:           "t01",
				Compare:      fslab.CompareExact,
				ExpectedFile: "t01.out",
				Weight:       1,
				TimeLimitMs:  5000,
			},
		},
	}, nil
}
