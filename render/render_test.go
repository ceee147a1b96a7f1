package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/jsonquill/jsonquill/scan"
	"github.com/jsonquill/jsonquill/token"
)

func TestErrorPlain(t *testing.T) {
	err := errors.New("boring")
	if got := ErrorColor(err, false); got != "boring" {
		t.Errorf("got %q", got)
	}
}

func TestErrorCaret(t *testing.T) {
	_, err := scan.Scan("f.json", []byte("{\n  \"a\": x\n}"))
	if err == nil {
		t.Fatal("expected error")
	}
	got := ErrorColor(err, false)
	want := strings.Join([]string{
		`f.json:2:8: Expecting value`,
		`    "a": x`,
		`         ^`,
	}, "\n")
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestErrorSpan(t *testing.T) {
	_, err := scan.Scan("g.json", []byte(`"ab`))
	if err == nil {
		t.Fatal("expected error")
	}
	got := ErrorColor(err, false)
	want := strings.Join([]string{
		`g.json:1:1: Unterminated string`,
		`  "ab`,
		`  ^^^`,
	}, "\n")
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestErrorDefaultName(t *testing.T) {
	err := token.NewSourceErr("bad", &token.Doc{Text: "x"}, 0, 1)
	got := ErrorColor(err, false)
	if !strings.HasPrefix(got, "<string>:1:1: bad") {
		t.Errorf("got %q", got)
	}
}

func TestErrorWrapped(t *testing.T) {
	_, serr := scan.Scan("f.json", []byte("[1,]"))
	if serr == nil {
		t.Fatal("expected error")
	}
	wrapped := errors.Join(errors.New("while loading config"), serr)
	got := ErrorColor(wrapped, false)
	if !strings.Contains(got, "f.json:1:3") {
		t.Errorf("got %q", got)
	}
}

func TestErrorColored(t *testing.T) {
	_, err := scan.Scan("f.json", []byte("x"))
	got := ErrorColor(err, true)
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("expected escape codes, got %q", got)
	}
}
