package exec

import "fmt"

// Language is one of the four runtimes the execution service accepts.
type Language string

const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangJava       Language = "java"
	LangCPP        Language = "cpp"
)

// Languages lists all supported runtimes in display order.
var Languages = []Language{LangPython, LangJavaScript, LangJava, LangCPP}

// spec describes how a language is submitted to the execution service.
type spec struct {
	Version  string
	FileName string
	Label    string
}

var specs = map[Language]spec{
	LangPython:     {Version: "3.10.0", FileName: "main.py", Label: "Python"},
	LangJavaScript: {Version: "18.15.0", FileName: "main.js", Label: "JavaScript"},
	LangJava:       {Version: "15.0.2", FileName: "Main.java", Label: "Java"},
	LangCPP:        {Version: "10.2.0", FileName: "main.cpp", Label: "C++"},
}

// Label is the human-readable language name.
func (l Language) Label() string {
	if s, ok := specs[l]; ok {
		return s.Label
	}
	return string(l)
}

// Valid reports whether l is a supported runtime.
func (l Language) Valid() bool {
	_, ok := specs[l]
	return ok
}

func langSpec(l Language) (spec, error) {
	s, ok := specs[l]
	if !ok {
		return spec{}, fmt.Errorf("unsupported language %q", l)
	}
	return s, nil
}

// Next cycles to the following language in display order.
func (l Language) Next() Language {
	for i, cand := range Languages {
		if cand == l {
			return Languages[(i+1)%len(Languages)]
		}
	}
	return Languages[0]
}
