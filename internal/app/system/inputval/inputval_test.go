package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@subdomain.example.com", true},

		{"", false},
		{"   ", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{"User Name <user@example.com>", false},
		{"user @example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	type articleInput struct {
		Title   string `json:"title" validate:"required,min=3,max=255" label:"Title"`
		Content string `json:"content" validate:"required,min=10" label:"Content"`
		Excerpt string `json:"excerpt" validate:"max=500" label:"Excerpt"`
		Status  string `json:"status" validate:"status" label:"Status"`
	}

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name       string
		input      articleInput
		wantErrors bool
		wantFirst  string
	}{
		{
			name:       "valid input",
			input:      articleInput{Title: "My First Post", Content: "0123456789", Status: "draft"},
			wantErrors: false,
		},
		{
			name:       "missing title",
			input:      articleInput{Content: "0123456789"},
			wantErrors: true,
			wantFirst:  "Title is required.",
		},
		{
			name:       "title too short",
			input:      articleInput{Title: "ab", Content: "0123456789"},
			wantErrors: true,
			wantFirst:  "Title must be at least 3 characters.",
		},
		{
			name:       "title too long",
			input:      articleInput{Title: string(long), Content: "0123456789"},
			wantErrors: true,
			wantFirst:  "Title must be at most 255 characters.",
		},
		{
			name:       "content too short",
			input:      articleInput{Title: "My First Post", Content: "short"},
			wantErrors: true,
			wantFirst:  "Content must be at least 10 characters.",
		},
		{
			name:       "bad status",
			input:      articleInput{Title: "My First Post", Content: "0123456789", Status: "archived"},
			wantErrors: true,
			wantFirst:  `Status must be "draft", "published", or "unpublished".`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)
			if result.HasErrors() != tt.wantErrors {
				t.Errorf("HasErrors = %v, want %v (errors: %v)", result.HasErrors(), tt.wantErrors, result.Errors)
			}
			if tt.wantErrors && result.First() != tt.wantFirst {
				t.Errorf("First() = %q, want %q", result.First(), tt.wantFirst)
			}
		})
	}
}

func TestValidate_PointerFieldsSkippedWhenNil(t *testing.T) {
	type patch struct {
		Title  *string `json:"title" validate:"required,min=3,max=255" label:"Title"`
		Status *string `json:"status" validate:"status" label:"Status"`
	}

	if result := Validate(patch{}); result.HasErrors() {
		t.Errorf("nil patch fields should not validate, got %v", result.Errors)
	}

	bad := "x"
	result := Validate(patch{Title: &bad})
	if !result.HasErrors() {
		t.Fatal("present-but-invalid pointer field should fail")
	}
	if result.Errors[0].Field != "title" {
		t.Errorf("Field = %q, want %q", result.Errors[0].Field, "title")
	}
}

func TestResult_Map(t *testing.T) {
	r := &Result{Errors: []FieldError{
		{Field: "title", Message: "Title is required."},
		{Field: "title", Message: "Title must be at least 3 characters."},
		{Field: "content", Message: "Content is required."},
	}}

	m := r.Map()
	if len(m) != 2 {
		t.Fatalf("Map() has %d entries, want 2", len(m))
	}
	if m["title"] != "Title is required." {
		t.Errorf("first error per field should win, got %q", m["title"])
	}
}

func TestResult_FirstAndAll(t *testing.T) {
	empty := &Result{}
	if empty.First() != "" || empty.All() != "" {
		t.Error("empty result should yield empty strings")
	}

	r := &Result{Errors: []FieldError{{Message: "Error 1"}, {Message: "Error 2"}}}
	if r.First() != "Error 1" {
		t.Errorf("First() = %q", r.First())
	}
	if r.All() != "Error 1; Error 2" {
		t.Errorf("All() = %q", r.All())
	}
}

func TestIsValidObjectID(t *testing.T) {
	if !IsValidObjectID("507f1f77bcf86cd799439011") {
		t.Error("expected valid ObjectID")
	}
	if IsValidObjectID("invalid-id") {
		t.Error("expected invalid ObjectID")
	}
}
