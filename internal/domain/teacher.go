package domain

// Teacher is a directory entry for a faculty member. Cabin is a location name
// in the campus graph; multiple teachers may share a first name, which is why
// directory lookups can require disambiguation.
type Teacher struct {
	FirstName  string
	LastName   string
	Phone      string
	Email      string
	Cabin      string
	Building   string
	Department string
}

// FullName joins first and last name for display.
func (t Teacher) FullName() string {
	if t.LastName == "" {
		return t.FirstName
	}
	return t.FirstName + " " + t.LastName
}
