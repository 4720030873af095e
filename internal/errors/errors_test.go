package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "protocol error",
			code:    CodeProtocol,
			wantMsg: "Context is not selector-enabled",
			wantCat: CategoryProtocol,
		},
		{
			name:    "missing provider",
			code:    CodeMissingProvider,
			wantMsg: "Missing provider",
			wantCat: CategoryRuntime,
		},
		{
			name:    "cli error",
			code:    CodeUnknownScenario,
			wantMsg: "Unknown scenario",
			wantCat: CategoryCLI,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryConfig, "file %q not found", "ctxsel.yaml")
	if err.Message != `file "ctxsel.yaml" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "ctxsel.yaml" not found`)
	}
	if err.Error() != err.Message {
		t.Errorf("Error() = %q, want message only", err.Error())
	}
}

func TestCodedError_Error(t *testing.T) {
	err := New(CodeProtocol).WithSubject("theme")
	want := "E101: Context is not selector-enabled (theme)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := New(CodeConfigLoad).Wrap(stderrors.New("bad yaml"))
	if !strings.HasSuffix(wrapped.Error(), ": bad yaml") {
		t.Errorf("Error() = %q, want wrapped cause", wrapped.Error())
	}
}

func TestCodedError_IsAndUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := New(CodeSelectorPanic).Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !stderrors.Is(err, New(CodeSelectorPanic)) {
		t.Error("errors.Is should match by code")
	}
	if stderrors.Is(err, New(CodeProtocol)) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, CodeServe) != nil {
		t.Error("FromError(nil) should be nil")
	}

	plain := stderrors.New("listen failed")
	ce := FromError(plain, CodeServe)
	if ce.Code != CodeServe || ce.Wrapped != plain {
		t.Errorf("FromError = %+v", ce)
	}

	orig := New(CodeProtocol)
	if FromError(orig, CodeServe) != orig {
		t.Error("FromError should return an existing CodedError unchanged")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(CodeFlushLimit)); got != CodeFlushLimit {
		t.Errorf("CodeOf = %q, want %q", got, CodeFlushLimit)
	}
	if got := CodeOf(stderrors.New("x")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New(CodeProtocol).WithSubject("theme").Format()
	for _, want := range []string{"ERROR E101", "theme", "Hint:", "Learn more:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	got := New(CodeMissingProvider).WithSubject("counter").FormatCompact()
	want := "E102: Missing provider (counter)"
	if got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	got := New(CodeFlushLimit).FormatJSON()
	if !strings.HasPrefix(got, `{"code":"E104","category":"runtime"`) {
		t.Errorf("FormatJSON() = %s", got)
	}

	got = New(CodeEventLog).
		WithExample(`ctxsel events "a.cbor"`).
		Wrap(stderrors.New("disk full")).
		FormatJSON()
	for _, want := range []string{`"example":"ctxsel events \"a.cbor\""`, `"cause":"disk full"`} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatJSON() = %s, missing %s", got, want)
		}
	}
}

func TestRegistryCodes(t *testing.T) {
	for _, code := range GetAllCodes() {
		tmpl, ok := GetTemplate(code)
		if !ok {
			t.Fatalf("GetTemplate(%s) missing", code)
		}
		if tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("%s has incomplete template", code)
		}
		if !strings.HasSuffix(tmpl.DocURL, code) {
			t.Errorf("%s DocURL = %s", code, tmpl.DocURL)
		}
	}
}
