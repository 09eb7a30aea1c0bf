package jsonutil

import (
	"errors"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "bare array", raw: `[1,2]`, want: `[1,2]`},
		{name: "fenced", raw: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "prose around", raw: `Here you go: [{"a":1}] hope it helps`, want: `[{"a":1}]`},
		{name: "object before array", raw: `{"shots":[1]}`, want: `{"shots":[1]}`},
		{name: "nothing", raw: "sorry, I can't", wantErr: true},
		{name: "unterminated", raw: `[{"a":1}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrNoJSON) {
					t.Fatalf("err = %v, want ErrNoJSON", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	type item struct {
		Title string `json:"title"`
	}
	items, err := Decode[[]item]("```\n[{\"title\":\"A\"},{\"title\":\"B\"}]\n```")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(items) != 2 || items[1].Title != "B" {
		t.Errorf("items = %+v", items)
	}

	if _, err := Decode[[]item](`[{"title": }]`); err == nil {
		t.Error("malformed JSON should fail")
	}
}
