package taskfile

// validate applies the semantic rules that the shape schema cannot express.
// It runs after decoding, before anything executes.
func validate(doc *Document) error {
	for name, h := range doc.Helpers {
		if h.Run == "" {
			return invalidf("helper %q: run is required", name)
		}
	}

	for _, t := range doc.Tasks {
		if t.Run.IsZero() && t.Text == "" && !t.RequireInput.Required {
			return invalidf("task %q: run is required unless the task only displays text", t.Name)
		}
		for _, ref := range t.Prerequisites {
			if _, ok := doc.Helpers[ref.Helper]; !ok {
				return invalidf("task %q: prerequisite references unknown helper %q", t.Name, ref.Helper)
			}
		}
		for _, hook := range []*PrereqRef{t.OnSuccess, t.OnFailure} {
			if hook == nil {
				continue
			}
			if _, ok := doc.Helpers[hook.Helper]; !ok {
				return invalidf("task %q: hook references unknown helper %q", t.Name, hook.Helper)
			}
		}
		if t.Each.Ref != "" && !varRefPattern.MatchString(t.Each.Ref) {
			return invalidf("task %q: each must be a list or a variables.<name> reference, got %q", t.Name, t.Each.Ref)
		}
	}
	return nil
}
