package validator

import (
	"strings"
	"testing"
)

func TestIsValid_Faithful(t *testing.T) {
	v := New(nil)

	src := `<p><span style="font-size: 14px;">If you have questions about <strong>Element X</strong>, write to <a href="mailto:mte.surveys@mercer.com">mte.surveys@mercer.com</a>.&nbsp;</span></p>`
	out := `<p><span style="font-size: 14px;">Se tiver dúvidas sobre <strong>Element X</strong>, escreva para <a href="mailto:mte.surveys@mercer.com">mte.surveys@mercer.com</a>.&nbsp;</span></p>`

	valid, err := v.IsValid(src, out)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !valid {
		t.Error("expected valid=true for faithful translation")
	}
}

func TestIsValid_PlainText(t *testing.T) {
	v := New(nil)

	valid, err := v.IsValid("NeverRarelySometimes", "NuncaRaramenteÀs vezes")
	if err != nil || !valid {
		t.Errorf("expected plain text to pass, got %v, %v", valid, err)
	}
}

func TestIsValid_Findings(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		out        string
		wantSubstr string
	}{
		{
			name:       "tag dropped",
			src:        "<p><strong>Hi</strong></p>",
			out:        "<p>Oi</p>",
			wantSubstr: "tag count changed: 4 -> 2",
		},
		{
			name:       "attribute altered",
			src:        `<span style="color: red">Hi</span>`,
			out:        `<span style="cor: vermelho">Oi</span>`,
			wantSubstr: "tag 1 changed",
		},
		{
			name:       "entity decoded",
			src:        "<p>Hi&nbsp;there</p>",
			out:        "<p>Olá aí</p>",
			wantSubstr: "entity &nbsp;: 1 -> 0",
		},
		{
			name:       "url rewritten",
			src:        "See https://example.com/help now",
			out:        "Veja https://example.com/ajuda agora",
			wantSubstr: `missing "https://example.com/help"`,
		},
		{
			name:       "email altered",
			src:        "Write to help@mercer.com",
			out:        "Escreva para ajuda@mercer.com",
			wantSubstr: `missing "help@mercer.com"`,
		},
		{
			name:       "dnt translated",
			src:        "Welcome to Element X",
			out:        "Bem-vindo ao Elemento X",
			wantSubstr: `DNT term "Element X" missing`,
		},
	}

	v := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, err := v.IsValid(tt.src, tt.out)
			if valid {
				t.Fatal("expected valid=false")
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantSubstr) {
				t.Errorf("expected error containing %q, got %v", tt.wantSubstr, err)
			}
		})
	}
}

func TestIsValid_CustomTerms(t *testing.T) {
	v := New([]string{"Acme"})

	if valid, _ := v.IsValid("Acme portal", "portal Acme"); !valid {
		t.Error("expected custom term kept to pass")
	}
	if valid, _ := v.IsValid("Acme portal", "portal Akme"); valid {
		t.Error("expected custom term lost to fail")
	}
	// Default terms no longer apply.
	if valid, _ := v.IsValid("Mercer", "Mércer"); !valid {
		t.Error("expected default terms to be replaced by custom ones")
	}
}

func TestIsValid_TermAbsentFromSource(t *testing.T) {
	v := New(nil)

	if valid, err := v.IsValid("<p>Hello</p>", "<p>Olá</p>"); !valid {
		t.Errorf("terms absent from the source must not be required: %v", err)
	}
}
