package json

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/protoshake/protoshake/present"
	"github.com/protoshake/protoshake/shake"
)

func TestPresenter(t *testing.T) {
	r := &shake.Report{
		Messages: shake.Count{Total: 2, Kept: 1},
		Methods:  shake.Count{Total: 1, Kept: 1},
	}
	cases := map[string]struct {
		indent   string
		expected string
	}{
		"compact": {
			expected: `{"file":"a.proto","rows":[{"kind":"messages","total":2,"kept":1,"dropped":1},{"kind":"enums","total":0,"kept":0,"dropped":0},{"kind":"methods","total":1,"kept":1,"dropped":0}]}` + "\n",
		},
		"indented": {
			indent: "  ",
			expected: `{
  "file": "a.proto",
  "rows": [
    {
      "kind": "messages",
      "total": 2,
      "kept": 1,
      "dropped": 1
    },
    {
      "kind": "enums",
      "total": 0,
      "kept": 0,
      "dropped": 0
    },
    {
      "kind": "methods",
      "total": 1,
      "kept": 1,
      "dropped": 0
    }
  ]
}
`,
		},
	}

	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			actual, err := NewPresenter().Format(present.NewStats("a.proto", r), c.indent)
			if err != nil {
				t.Fatalf("Format must not return an error, but got '%s'", err)
			}
			if diff := cmp.Diff(c.expected, actual); diff != "" {
				t.Errorf("-want, +got\n%s", diff)
			}
		})
	}
}
