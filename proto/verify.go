package proto

import (
	"context"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/protoshake/protoshake/schema"
	"github.com/protoshake/protoshake/shake"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// VerifyResult describes the compiled form of a pruned file.
type VerifyResult struct {
	// Messages and Enums are the file-scoped declarations, sorted.
	Messages []string
	Enums    []string
	// Services maps a service name to its method names.
	Services map[string][]string
	// Warnings are non-fatal compiler diagnostics, such as unused imports.
	Warnings []string
}

// Verify compiles the pruned text src and checks it against the marked
// schema s. Every reachable message must be declared, no unreachable one may
// be, and each service must declare exactly the methods retained by keep.
func Verify(ctx context.Context, name string, src []byte, importPaths []string, s *schema.Schema, keep shake.KeepSet) (*VerifyResult, error) {
	fd, warns, err := compile(ctx, name, src, importPaths)
	if err != nil {
		return nil, err
	}

	r := &VerifyResult{
		Messages: names(fd.Messages().Len(), func(i int) protoreflect.Name { return fd.Messages().Get(i).Name() }),
		Enums:    names(fd.Enums().Len(), func(i int) protoreflect.Name { return fd.Enums().Get(i).Name() }),
		Services: make(map[string][]string, fd.Services().Len()),
		Warnings: warns,
	}
	for i := 0; i < fd.Services().Len(); i++ {
		sd := fd.Services().Get(i)
		ms := sd.Methods()
		r.Services[string(sd.Name())] = names(ms.Len(), func(i int) protoreflect.Name { return ms.Get(i).Name() })
	}

	var result error
	for _, m := range s.Messages {
		declared := fd.Messages().ByName(protoreflect.Name(m.Name)) != nil
		switch {
		case m.Reachable && !declared:
			result = multierror.Append(result, errors.Errorf("reachable message %s is missing", m.Name))
		case !m.Reachable && declared:
			result = multierror.Append(result, errors.Errorf("unreachable message %s is declared", m.Name))
		}
	}
	for _, svc := range s.Services {
		sd := fd.Services().ByName(protoreflect.Name(svc.Name))
		if sd == nil {
			result = multierror.Append(result, errors.Errorf("service %s is missing", svc.Name))
			continue
		}
		for _, m := range svc.Methods {
			retained := keep.Has(schema.MethodRef{Service: svc.Name, Method: m})
			declared := sd.Methods().ByName(protoreflect.Name(m.Name)) != nil
			switch {
			case retained && !declared:
				result = multierror.Append(result, errors.Errorf("retained method %s.%s is missing", svc.Name, m.Name))
			case !retained && declared:
				result = multierror.Append(result, errors.Errorf("dropped method %s.%s is declared", svc.Name, m.Name))
			}
		}
	}
	if result != nil {
		return r, errors.Wrapf(result, "%s does not match the marked schema", name)
	}
	return r, nil
}

func names(n int, get func(int) protoreflect.Name) []string {
	ns := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ns = append(ns, string(get(i)))
	}
	sort.Strings(ns)
	return ns
}
