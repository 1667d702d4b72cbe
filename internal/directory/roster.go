package directory

import "strings"

// PositionFromDepartment extracts the role hidden in a "Компания, Роль"
// department string: everything after the first comma. Returns "" when the
// department has no comma-separated role segment.
func PositionFromDepartment(department string) string {
	parts := strings.Split(department, ",")
	if len(parts) < 2 {
		return ""
	}

	var segments []string
	for _, part := range parts[1:] {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}

	return strings.Join(segments, ", ")
}

// SplitLastName separates a role accidentally glued onto a surname in the
// source roster ("Баранов Менеджер"): the first token is the surname, the
// rest is treated as the position.
func SplitLastName(lastName string) (surname, position string) {
	parts := strings.Fields(lastName)
	if len(parts) < 2 {
		return lastName, ""
	}

	return parts[0], strings.Join(parts[1:], " ")
}

// DerivePosition resolves an employee's position from the roster data,
// preferring the department role segment over a glued-on surname tail.
func DerivePosition(department, lastName string) string {
	if pos := PositionFromDepartment(department); pos != "" {
		return pos
	}
	_, pos := SplitLastName(lastName)
	return pos
}
