package domain

// Category is a named, colored grouping label assignable to tasks.
type Category struct {
	ID    int64
	Name  string
	Color string
}

// DefaultCategories is the fixed set seeded on first startup when the
// category collection is empty.
var DefaultCategories = []Category{
	{Name: "Work", Color: "#4f46e5"},
	{Name: "Personal", Color: "#16a34a"},
	{Name: "Shopping", Color: "#ea580c"},
	{Name: "Health", Color: "#dc2626"},
	{Name: "Education", Color: "#9333ea"},
}
