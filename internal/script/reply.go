package script

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Reply is one reply alternative of a rule: a Text template or one of the
// directives Goto, NewKey and Pre. The set is closed.
type Reply interface {
	isReply()
}

// Text is a reassembly template; {n} refers to the n-th capture.
type Text struct {
	Template string
}

// Goto hands the unreflected input to another keyword's rules.
type Goto struct {
	Keyword string
}

// NewKey gives up on the current keyword so the next ranked one is tried.
type NewKey struct{}

// Pre builds a new input from literals and capture numbers, then resolves
// it against Target.
type Pre struct {
	Transform []string
	Target    string
}

func (Text) isReply()   {}
func (Goto) isReply()   {}
func (NewKey) isReply() {}
func (Pre) isReply()    {}

// Replies is the ordered alternatives list of a rule.
type Replies []Reply

type directive struct {
	Goto   string   `yaml:"goto,omitempty" json:"goto,omitempty"`
	NewKey bool     `yaml:"newkey,omitempty" json:"newkey,omitempty"`
	Pre    []string `yaml:"pre,omitempty" json:"pre,omitempty"`
	Target string   `yaml:"target,omitempty" json:"target,omitempty"`
}

// UnmarshalYAML decodes scalars as Text and mappings as directives.
func (r *Replies) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: replies must be a list", node.Line)
	}
	out := make(Replies, 0, len(node.Content))
	for _, n := range node.Content {
		reply, err := decodeReply(n)
		if err != nil {
			return err
		}
		out = append(out, reply)
	}
	*r = out
	return nil
}

func decodeReply(n *yaml.Node) (Reply, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return Text{Template: n.Value}, nil
	case yaml.MappingNode:
		var d directive
		if err := n.Decode(&d); err != nil {
			return nil, fmt.Errorf("line %d: decode directive: %w", n.Line, err)
		}
		switch {
		case d.Goto != "":
			return Goto{Keyword: d.Goto}, nil
		case d.NewKey:
			return NewKey{}, nil
		case len(d.Pre) > 0:
			if d.Target == "" {
				return nil, fmt.Errorf("line %d: pre directive without target", n.Line)
			}
			return Pre{Transform: d.Pre, Target: d.Target}, nil
		}
		return nil, fmt.Errorf("line %d: unknown directive", n.Line)
	}
	return nil, fmt.Errorf("line %d: reply must be text or a directive", n.Line)
}

func (r Replies) values() []any {
	out := make([]any, 0, len(r))
	for _, reply := range r {
		switch v := reply.(type) {
		case Text:
			out = append(out, v.Template)
		case Goto:
			out = append(out, directive{Goto: v.Keyword})
		case NewKey:
			out = append(out, directive{NewKey: true})
		case Pre:
			out = append(out, directive{Pre: v.Transform, Target: v.Target})
		}
	}
	return out
}

// MarshalYAML writes replies back in the form UnmarshalYAML reads.
func (r Replies) MarshalYAML() (any, error) {
	return r.values(), nil
}

// MarshalJSON mirrors MarshalYAML.
func (r Replies) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.values())
}

// Describe renders a reply for listings and logs.
func Describe(r Reply) string {
	switch v := r.(type) {
	case Text:
		return v.Template
	case Goto:
		return "goto " + v.Keyword
	case NewKey:
		return "newkey"
	case Pre:
		return fmt.Sprintf("pre %v -> %s", v.Transform, v.Target)
	}
	return fmt.Sprintf("%T", r)
}
