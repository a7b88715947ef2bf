package csv

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"First Name", "firstname"},
		{"first_name", "firstname"},
		{"firstname ", "firstname"},
		{"  FIRST   NAME  ", "firstname"},
		{"Whats-App", "whatsapp"},
		{"\ufeffPhone", "phone"},
		{"Created\tAt", "createdat"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeHeader(tt.input); got != tt.want {
				t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitJoinList(t *testing.T) {
	if got := JoinList([]string{"Yunusabad", " Chilanzar ", "", "Mirabad"}); got != "Yunusabad, Chilanzar, Mirabad" {
		t.Errorf("JoinList = %q", got)
	}

	tests := []struct {
		cell string
		want []string
	}{
		{"Yunusabad, Chilanzar", []string{"Yunusabad", "Chilanzar"}},
		{"Yunusabad,Chilanzar,", []string{"Yunusabad", "Chilanzar"}},
		{"  ", nil},
		{"", nil},
		{"single", []string{"single"}},
	}
	for _, tt := range tests {
		if got := SplitList(tt.cell); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitList(%q) = %v, want %v", tt.cell, got, tt.want)
		}
	}
}

func TestParse_LineNumbersAndKeys(t *testing.T) {
	input := "First Name,last_name,PHONE\n" +
		"Jane,Smith,+998901\n" +
		"\n" +
		",,\n" +
		"John,Doe,+998902\n"

	doc, err := ParseBytes([]byte(input))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}

	wantKeys := []string{"firstname", "lastname", "phone"}
	if !reflect.DeepEqual(doc.Keys, wantKeys) {
		t.Errorf("Keys = %v, want %v", doc.Keys, wantKeys)
	}
	if len(doc.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(doc.Records))
	}
	if doc.Records[0].Line != 2 || doc.Records[1].Line != 3 {
		t.Errorf("lines = %d,%d, want 2,3", doc.Records[0].Line, doc.Records[1].Line)
	}
	if got := doc.Records[1].Fields["firstname"]; got != "John" {
		t.Errorf("firstname = %q, want John", got)
	}
	if !doc.HasColumn("phone") || doc.HasColumn("email") {
		t.Error("HasColumn mismatch")
	}
}

func TestParse_ShortAndTrailingEmptyCells(t *testing.T) {
	input := "firstname,lastname,phone\nJane,Smith,+998901,\nJohn,Doe\n"

	doc, err := ParseBytes([]byte(input))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if len(doc.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(doc.Records))
	}
	if got, ok := doc.Records[1].Fields["phone"]; !ok || got != "" {
		t.Errorf("short row phone = %q (present=%v), want empty", got, ok)
	}
}

func TestParse_BOMAndInvalidUTF8(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("phone,notes\n+1,caf\xe9\n")...)

	doc, err := ParseBytes(input)
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if doc.Keys[0] != "phone" {
		t.Errorf("first key = %q, want phone", doc.Keys[0])
	}
	if got := doc.Records[0].Fields["notes"]; got != "caf\uFFFD" {
		t.Errorf("notes = %q, want replacement char", got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		line    int
	}{
		{
			name:    "empty document",
			input:   "",
			wantErr: ErrNoHeader,
		},
		{
			name:    "blank header",
			input:   " , \n",
			wantErr: ErrNoHeader,
		},
		{
			name:    "duplicate header key",
			input:   "Phone,phone\n1,2\n",
			wantErr: ErrDuplicateColumn,
			line:    1,
		},
		{
			name:    "extra values beyond header",
			input:   "firstname,phone\nJane,+1\nJohn,+2,extra\n",
			wantErr: ErrFieldCount,
			line:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.line > 0 {
				var pe *ParseError
				if !errors.As(err, &pe) {
					t.Fatalf("error %T is not *ParseError", err)
				}
				if pe.Line != tt.line {
					t.Errorf("line = %d, want %d", pe.Line, tt.line)
				}
			}
		})
	}
}

func TestParse_UnbalancedQuote(t *testing.T) {
	_, err := ParseBytes([]byte("firstname,phone\n\"Jane,+1\n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
}

func TestWrite_QuotesAndRoundTrip(t *testing.T) {
	header := []string{"FirstName", "Notes", "Districts"}
	rows := [][]string{
		{"Jane", `said "hi"`, JoinList([]string{"Yunusabad", "Chilanzar"})},
		{"John", "line1\nline2", ""},
	}

	var buf bytes.Buffer
	if err := Write(&buf, header, rows); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "FirstName,Notes,Districts\n") {
		t.Errorf("missing header line: %q", out)
	}
	if !strings.Contains(out, `"said ""hi"""`) {
		t.Errorf("quote not escaped: %q", out)
	}
	if !strings.Contains(out, `"Yunusabad, Chilanzar"`) {
		t.Errorf("list value not quoted: %q", out)
	}

	doc, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := doc.Records[1].Fields["notes"]; got != "line1\nline2" {
		t.Errorf("notes = %q", got)
	}
	if got := SplitList(doc.Records[0].Fields["districts"]); !reflect.DeepEqual(got, []string{"Yunusabad", "Chilanzar"}) {
		t.Errorf("districts = %v", got)
	}
}

func TestWrite_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []string{"A", "B"}, nil); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if buf.String() != "A,B\n" {
		t.Errorf("got %q, want header only", buf.String())
	}
}
