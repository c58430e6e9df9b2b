package taskfile

import (
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"taskrunner/internal/core"
)

// Load reads and parses the taskfile at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, invalidf("reading taskfile: %v", err)
	}
	return Parse(data)
}

// Parse validates the document shape against the embedded schema, decodes
// the three sections preserving declaration order, and runs semantic
// validation. Any failure is a *DocumentError and nothing will execute.
func Parse(data []byte) (*Document, error) {
	if err := validateShape(data); err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, invalidf("yaml: %v", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, invalidf("empty document")
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, invalidf("top level must be a mapping")
	}

	doc := &Document{Helpers: make(map[string]Helper)}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		val := mapping.Content[i+1]
		var err error
		switch key {
		case "information":
			doc.Information = strings.TrimSpace(val.Value)
		case "variables":
			doc.Variables, err = decodeVariables(val)
		case "helpers":
			err = decodeHelpers(val, doc.Helpers)
		case "tasks":
			doc.Tasks, err = decodeTasks(val)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// valueFromNode builds a typed variable value from a YAML node. Sequences
// become lists; scalars containing newlines (block scalars) become text,
// anything else is a plain scalar.
func valueFromNode(n *yaml.Node) (core.Value, error) {
	switch n.Kind {
	case yaml.SequenceNode:
		var items []string
		if err := n.Decode(&items); err != nil {
			return core.Value{}, invalidf("variable list: %v", err)
		}
		return core.List(items...), nil
	case yaml.ScalarNode:
		if strings.Contains(n.Value, "\n") {
			return core.Text(strings.TrimRight(n.Value, "\n")), nil
		}
		return core.Scalar(n.Value), nil
	default:
		return core.Value{}, invalidf("unsupported variable value at line %d", n.Line)
	}
}

// decodeVariables accepts both declaration shapes: a plain mapping, or a
// list of single-key mappings.
func decodeVariables(node *yaml.Node) ([]VariableDecl, error) {
	var decls []VariableDecl
	appendPairs := func(m *yaml.Node) error {
		for i := 0; i+1 < len(m.Content); i += 2 {
			v, err := valueFromNode(m.Content[i+1])
			if err != nil {
				return err
			}
			decls = append(decls, VariableDecl{Name: m.Content[i].Value, Value: v})
		}
		return nil
	}

	switch node.Kind {
	case yaml.MappingNode:
		if err := appendPairs(node); err != nil {
			return nil, err
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			if item.Kind != yaml.MappingNode {
				return nil, invalidf("variables: list items must be mappings (line %d)", item.Line)
			}
			if err := appendPairs(item); err != nil {
				return nil, err
			}
		}
	default:
		return nil, invalidf("variables: must be a mapping or a list of mappings")
	}
	return decls, nil
}

func decodeHelpers(node *yaml.Node, out map[string]Helper) error {
	if node.Kind != yaml.MappingNode {
		return invalidf("helpers: must be a mapping")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var rh struct {
			Run     string `yaml:"run"`
			Text    string `yaml:"text"`
			Shell   bool   `yaml:"shell"`
			Success int    `yaml:"success"`
		}
		if err := node.Content[i+1].Decode(&rh); err != nil {
			return invalidf("helper %q: %v", name, err)
		}
		if _, dup := out[name]; dup {
			return invalidf("duplicate helper name %q", name)
		}
		out[name] = Helper{Name: name, Run: rh.Run, Text: rh.Text, Shell: rh.Shell, Success: rh.Success}
	}
	return nil
}

// varRefPattern is the accepted form of an each-source reference.
var varRefPattern = regexp.MustCompile(`^variables\.[A-Za-z0-9_]+$`)

func decodeTasks(node *yaml.Node) ([]Task, error) {
	if node.Kind != yaml.MappingNode {
		return nil, invalidf("tasks: must be a mapping")
	}
	seen := make(map[string]bool)
	var tasks []Task
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if seen[name] {
			return nil, invalidf("duplicate task name %q", name)
		}
		seen[name] = true

		task, err := decodeTask(name, node.Content[i+1])
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func decodeTask(name string, node *yaml.Node) (Task, error) {
	var rt struct {
		Text          string    `yaml:"text"`
		Run           yaml.Node `yaml:"run"`
		Each          yaml.Node `yaml:"each"`
		Prerequisites string    `yaml:"prerequisites"`
		Check         string    `yaml:"check"`
		Success       int       `yaml:"success"`
		Cwd           string    `yaml:"cwd"`
		ShowOutput    bool      `yaml:"show_output"`
		RequireInput  yaml.Node `yaml:"require_input"`
		OnSuccess     string    `yaml:"on_success"`
		OnFailure     string    `yaml:"on_failure"`
	}
	if err := node.Decode(&rt); err != nil {
		return Task{}, invalidf("task %q: %v", name, err)
	}

	task := Task{
		Name:          name,
		Text:          rt.Text,
		Success:       rt.Success,
		ShowOutput:    rt.ShowOutput,
		CheckPattern:  rt.Check,
		Cwd:           rt.Cwd,
		Prerequisites: ParsePrereqs(rt.Prerequisites),
	}

	switch rt.Run.Kind {
	case yaml.ScalarNode:
		task.Run = RunSpec{Shell: rt.Run.Value}
	case yaml.SequenceNode:
		var argv []string
		if err := rt.Run.Decode(&argv); err != nil {
			return Task{}, invalidf("task %q: run: %v", name, err)
		}
		task.Run = RunSpec{Argv: argv}
	}

	switch rt.Each.Kind {
	case yaml.ScalarNode:
		task.Each = EachSpec{Ref: rt.Each.Value}
	case yaml.SequenceNode:
		items := []string{}
		if err := rt.Each.Decode(&items); err != nil {
			return Task{}, invalidf("task %q: each: %v", name, err)
		}
		task.Each = EachSpec{Items: items}
	}

	if rt.RequireInput.Kind == yaml.ScalarNode {
		if rt.RequireInput.Tag == "!!bool" {
			task.RequireInput = InputPrompt{Required: rt.RequireInput.Value == "true"}
		} else {
			task.RequireInput = InputPrompt{Required: true, Message: rt.RequireInput.Value}
		}
	}

	if rt.Check != "" {
		rx, err := regexp.Compile(rt.Check)
		if err != nil {
			return Task{}, invalidf("task %q: check: %v", name, err)
		}
		task.Check = rx
	}

	var err error
	if task.OnSuccess, err = decodeHook(name, "on_success", rt.OnSuccess); err != nil {
		return Task{}, err
	}
	if task.OnFailure, err = decodeHook(name, "on_failure", rt.OnFailure); err != nil {
		return Task{}, err
	}

	return task, nil
}

func decodeHook(task, field, s string) (*PrereqRef, error) {
	if s == "" {
		return nil, nil
	}
	refs := ParsePrereqs(s)
	if len(refs) != 1 {
		return nil, invalidf("task %q: %s: expected a single helpers.<name> reference, got %q", task, field, s)
	}
	return &refs[0], nil
}
