package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/protoshake/protoshake/schema"
)

func kinds(stmts []Statement) []StatementKind {
	ks := make([]StatementKind, len(stmts))
	for i, st := range stmts {
		ks[i] = st.Kind
	}
	return ks
}

func TestScan(t *testing.T) {
	cases := map[string]struct {
		src      string
		expected []StatementKind
		raws     map[int]string
	}{
		"block comments are dropped and rpcs are joined": {
			src: `syntax = "proto3";
/* block
   comment */
message A {
  int32 x = 1; // trailing
}

service S {
  rpc Call(A)
      returns (A);
}`,
			expected: []StatementKind{Header, MessageOpen, Field, Close, Blank, ServiceOpen, RPC, Close},
			raws: map[int]string{
				0: `syntax = "proto3";`,
				2: "int32 x = 1;",
				6: "rpc Call(A) returns (A);",
			},
		},
		"one-line blocks": {
			src:      `message A { int32 x = 1; } enum E { X = 0; }`,
			expected: []StatementKind{MessageOpen, Field, Close, EnumOpen, EnumValue, Close},
		},
		"same-line block comment": {
			src:      `message A { /* note */ string s = 1; }`,
			expected: []StatementKind{MessageOpen, Field, Close},
			raws:     map[int]string{1: "string s = 1;"},
		},
		"rpc with an option body": {
			src: `service S {
  rpc Get(A) returns (B) {
    option (google.api.http) = {
      get: "/v1/a"
    };
  }
}`,
			expected: []StatementKind{ServiceOpen, RPC, Close},
		},
		"options inside and outside blocks": {
			src: `option java_package = "a.b";
message A {
  option deprecated = true;
  reserved 2, 3;
}`,
			expected: []StatementKind{Header, MessageOpen, Option, Reserved, Close},
		},
		"field options with an aggregate value": {
			src:      `message A { string s = 1 [(v.rules) = { min_len: 1 }]; }`,
			expected: []StatementKind{MessageOpen, Field, Close},
		},
		"missing terminator before a closing brace": {
			src:      `message A { string s = 1 }`,
			expected: []StatementKind{MessageOpen, Unknown, Close},
		},
		"nested and unknown blocks": {
			src:      `extend Foo { string s = 100; }`,
			expected: []StatementKind{BlockOpen, Field, Close},
		},
	}

	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			stmts, err := Scan([]byte(c.src))
			if err != nil {
				t.Fatalf("Scan must not return an error, but got '%s'", err)
			}
			if diff := cmp.Diff(c.expected, kinds(stmts)); diff != "" {
				t.Fatalf("-want, +got\n%s", diff)
			}
			for i, raw := range c.raws {
				if stmts[i].Raw != raw {
					t.Errorf("statement %d: expected raw '%s', but got '%s'", i, raw, stmts[i].Raw)
				}
			}
		})
	}
}

func TestScan_lineNumbers(t *testing.T) {
	stmts, err := Scan([]byte("\n\nmessage A {\n}\n"))
	if err != nil {
		t.Fatalf("Scan must not return an error, but got '%s'", err)
	}
	expected := []int{1, 2, 3, 4}
	var actual []int
	for _, st := range stmts {
		actual = append(actual, st.Line)
	}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("-want, +got\n%s", diff)
	}
}

const fixture = `syntax = "proto3";
package acme.v1;
import "google/protobuf/empty.proto";

message User {
  enum Role {
    ROLE_UNSPECIFIED = 0;
    ROLE_ADMIN = 2;
  }
  string id = 1;
  Role role = 2;
  repeated Group groups = 3;
  map<string,Group> by_name = 4;
  optional string nickname = 5 [deprecated = true];
  oneof contact {
    string email = 6;
    string phone = 7;
  }
}

enum Status {
  STATUS_UNSPECIFIED = 0;
  STATUS_OK = 0x1;
  STATUS_GONE = -1;
}

message Group { string name = 1; }

service Users {
  rpc GetUser(User) returns (User);
  rpc Stream (stream User)
    returns (stream Group);
}
`

func TestParse(t *testing.T) {
	s, warns, err := Parse([]byte(fixture))
	if err != nil {
		t.Fatalf("Parse must not return an error, but got '%s'", err)
	}
	if len(warns) != 0 {
		t.Errorf("expected no warnings, but got %v", warns)
	}

	if diff := cmp.Diff([]string{`syntax = "proto3";`, "package acme.v1;", `import "google/protobuf/empty.proto";`}, s.Headers); diff != "" {
		t.Errorf("headers: -want, +got\n%s", diff)
	}
	if s.Package != "acme.v1" {
		t.Errorf("expected package 'acme.v1', but got '%s'", s.Package)
	}

	var names []string
	for _, m := range s.Messages {
		names = append(names, m.Name)
	}
	if diff := cmp.Diff([]string{"User", "Group"}, names); diff != "" {
		t.Errorf("messages: -want, +got\n%s", diff)
	}

	user := s.Message("User")
	expectedFields := []*schema.Field{
		{Type: schema.NewType("string"), Name: "id", Number: 1},
		{Type: schema.NewType("Role"), Name: "role", Number: 2},
		{Type: schema.NewRepeated(schema.NewType("Group")), Name: "groups", Number: 3},
		{Type: schema.NewMap(schema.NewType("string"), schema.NewType("Group")), Name: "by_name", Number: 4},
		{Type: schema.NewType("string"), Name: "nickname", Number: 5, Label: schema.LabelOptional, Options: "[deprecated = true]"},
		{Type: schema.NewType("string"), Name: "email", Number: 6, Oneof: "contact"},
		{Type: schema.NewType("string"), Name: "phone", Number: 7, Oneof: "contact"},
	}
	if diff := cmp.Diff(expectedFields, user.Fields); diff != "" {
		t.Errorf("fields: -want, +got\n%s", diff)
	}

	role := s.Enum("User.Role")
	if role == nil {
		t.Fatal("User.Role must be registered under its qualified identity")
	}
	if diff := cmp.Diff(map[int]string{0: "ROLE_UNSPECIFIED", 2: "ROLE_ADMIN"}, role.Values); diff != "" {
		t.Errorf("User.Role values: -want, +got\n%s", diff)
	}
	if s.Enum("Role") != nil {
		t.Error("a message-scoped enum must not be registered under its bare name")
	}

	status := s.Enum("Status")
	if diff := cmp.Diff(map[int]string{0: "STATUS_UNSPECIFIED", 1: "STATUS_OK", -1: "STATUS_GONE"}, status.Values); diff != "" {
		t.Errorf("Status values: -want, +got\n%s", diff)
	}

	expectedMethods := []*schema.Method{
		{Name: "GetUser", Input: "User", Output: "User"},
		{Name: "Stream", Input: "User", Output: "Group", InputStream: true, OutputStream: true},
	}
	if len(s.Services) != 1 || s.Services[0].Name != "Users" {
		t.Fatalf("expected one service named Users, but got %v", s.Services)
	}
	if diff := cmp.Diff(expectedMethods, s.Services[0].Methods); diff != "" {
		t.Errorf("methods: -want, +got\n%s", diff)
	}
}

func TestParse_warnings(t *testing.T) {
	cases := map[string]struct {
		src      string
		expected []WarningKind
		check    func(t *testing.T, s *schema.Schema)
	}{
		"malformed field is skipped": {
			src:      "message A {\n  string = 1;\n  int32 ok = 2;\n}\n",
			expected: []WarningKind{MalformedStatement},
			check: func(t *testing.T, s *schema.Schema) {
				if n := len(s.Message("A").Fields); n != 1 {
					t.Errorf("expected 1 field, but got %d", n)
				}
			},
		},
		"nested message body is skipped without closing the owner": {
			src:      "message A {\n  message B {\n    int32 x = 1;\n  }\n  B b = 1;\n}\n",
			expected: []WarningKind{UnsupportedConstruct},
			check: func(t *testing.T, s *schema.Schema) {
				if s.Message("B") != nil {
					t.Error("nested message B must not be registered")
				}
				if n := len(s.Message("A").Fields); n != 1 {
					t.Errorf("expected 1 field of A, but got %d", n)
				}
			},
		},
		"stray closing brace": {
			src:      "}\nmessage A {}\n",
			expected: []WarningKind{UnbalancedBrace},
		},
		"duplicate message replaces the earlier one": {
			src:      "message A { int32 x = 1; }\nmessage B {}\nmessage A { int32 y = 2; }\n",
			expected: []WarningKind{DuplicateDeclaration},
			check: func(t *testing.T, s *schema.Schema) {
				if s.Messages[0].Name != "A" || s.Messages[0].Fields[0].Name != "y" {
					t.Errorf("A must keep its first position with the later body, but got %+v", s.Messages[0])
				}
			},
		},
		"rpc outside a service": {
			src:      "rpc Get(A) returns (B);\n",
			expected: []WarningKind{MalformedStatement},
		},
		"malformed rpc": {
			src:      "service S {\n  rpc Get(A) gives (B);\n}\n",
			expected: []WarningKind{MalformedStatement},
			check: func(t *testing.T, s *schema.Schema) {
				if n := len(s.Services[0].Methods); n != 0 {
					t.Errorf("expected no methods, but got %d", n)
				}
			},
		},
		"line comments produce nothing": {
			src:      "// message A {\nmessage B {}\n",
			expected: nil,
		},
	}

	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			s, warns, err := Parse([]byte(c.src))
			if err != nil {
				t.Fatalf("Parse must not return an error, but got '%s'", err)
			}
			var actual []WarningKind
			for _, w := range warns {
				actual = append(actual, w.Kind)
			}
			if diff := cmp.Diff(c.expected, actual); diff != "" {
				t.Errorf("-want, +got\n%s", diff)
			}
			if c.check != nil {
				c.check(t, s)
			}
		})
	}
}

func TestWarning_String(t *testing.T) {
	_, warns, err := Parse([]byte("message A {\n  what is this;\n}\n"))
	if err != nil {
		t.Fatalf("Parse must not return an error, but got '%s'", err)
	}
	if len(warns) != 1 {
		t.Fatalf("expected 1 warning, but got %d", len(warns))
	}
	if s := warns[0].String(); !strings.HasPrefix(s, "line 2: malformed statement:") {
		t.Errorf("unexpected warning text '%s'", s)
	}
}
