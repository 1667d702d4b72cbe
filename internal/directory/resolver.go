package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/navikon/atlasbot/internal/apperr"
	"github.com/navikon/atlasbot/internal/models"
	"github.com/navikon/atlasbot/internal/repository"
)

// Fixed reply literals. These are part of the observable contract and must
// stay byte-for-byte stable.
const (
	MsgNotFound = "Сотрудник не найден."
	MsgClarify  = "Уточните, пожалуйста, имя и фамилию сотрудника."
)

// Result is the outcome of one resolution attempt. Handled reports that a
// directory-specific answer was produced and the conversational fallback must
// be skipped; when Handled is false the Text is meaningless.
type Result struct {
	Handled bool
	Text    string
}

// Resolver turns an admitted directory query into a formatted answer through
// an ordered chain of matching strategies. The first strategy that produces a
// decision wins. The resolver never mutates the store.
type Resolver struct {
	log  *slog.Logger
	repo repository.EmployeeManager
}

// NewResolver creates a resolver backed by the given employee repository.
func NewResolver(log *slog.Logger, repo repository.EmployeeManager) *Resolver {
	return &Resolver{log: log, repo: repo}
}

// Resolve runs the strategy chain over the raw text. The caller is expected
// to have admitted the text via IsDirectoryQuery first. A returned error is
// always an *apperr.Error of kind Database.
func (r *Resolver) Resolve(ctx context.Context, text string) (Result, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{Handled: true, Text: MsgClarify}, nil
	}
	low := strings.ToLower(trimmed)

	// 1. Fixed role phrases always decide the request, never fall through.
	if pred, ok := fixedRolePredicate(low); ok {
		return r.findAndFormat(ctx, pred)
	}

	// 2. Explicit position question.
	if strings.Contains(low, "должност") {
		return r.resolvePosition(ctx, trimmed)
	}

	// 3. Bare "Имя Фамилия" query. The one strategy whose miss falls through
	// to conversation: two capitalized words may open an unrelated sentence.
	if firstName, lastName, ok := ExtractName(trimmed); ok {
		return r.resolveBareName(ctx, firstName, lastName)
	}

	// 4. An email is unambiguous, so its miss is a terminal "not found".
	if email, ok := ExtractEmail(trimmed); ok {
		return r.resolveEmail(ctx, email)
	}

	// 5. Department free text, the least reliable signal: silent fallthrough.
	if containsAny(low, "отдел", "подразделение", "бухгалтерия") {
		return r.resolveDepartment(ctx, low)
	}

	return Result{}, nil
}

// fixedRolePredicate maps the three fixed role phrasings onto predicates.
// The checks are ordered; the first matching phrase wins.
func fixedRolePredicate(low string) (repository.Predicate, bool) {
	switch {
	case strings.Contains(low, "главный бухгалтер") || strings.Contains(low, "главбух"):
		return repository.Contains(repository.FieldPosition, "главный бухгалтер"), true
	case strings.Contains(low, "директор"):
		return repository.Contains(repository.FieldPosition, "директор"), true
	case strings.Contains(low, "руководитель") && strings.Contains(low, "тех"):
		return repository.And(
			repository.Contains(repository.FieldPosition, "руководитель"),
			repository.Contains(repository.FieldDepartment, "тех"),
		), true
	default:
		return nil, false
	}
}

// resolvePosition answers "какая должность у X" style questions. A resolved
// record with a known position is reported as a single line, otherwise the
// full card is shown.
func (r *Resolver) resolvePosition(ctx context.Context, text string) (Result, error) {
	if firstName, lastName, ok := ExtractName(text); ok {
		emp, found, err := r.findByNamePair(ctx, firstName, lastName)
		if err != nil {
			return Result{}, err
		}
		if !found {
			return Result{Handled: true, Text: MsgNotFound}, nil
		}
		return Result{Handled: true, Text: formatPosition(emp)}, nil
	}

	if token, ok := ExtractToken(text); ok {
		pred := repository.Or(
			repository.Contains(repository.FieldLastName, token),
			repository.Contains(repository.FieldFirstName, token),
			repository.Contains(repository.FieldEmail, token),
		)
		emp, err := r.repo.FindFirst(ctx, pred)
		if err != nil {
			if errors.Is(err, repository.ErrEmployeeNotFound) {
				return Result{Handled: true, Text: MsgNotFound}, nil
			}
			return Result{}, apperr.Database(err)
		}
		return Result{Handled: true, Text: formatPosition(emp)}, nil
	}

	// No name token at all: a terminal clarification, not a fallthrough.
	return Result{Handled: true, Text: MsgClarify}, nil
}

func (r *Resolver) resolveBareName(ctx context.Context, firstName, lastName string) (Result, error) {
	emp, found, err := r.findByNamePair(ctx, firstName, lastName)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return Result{}, nil
	}

	return Result{Handled: true, Text: FormatEmployeeInfo(emp)}, nil
}

func (r *Resolver) resolveEmail(ctx context.Context, email string) (Result, error) {
	return r.findAndFormat(ctx, repository.Equals(repository.FieldEmail, email))
}

func (r *Resolver) resolveDepartment(ctx context.Context, low string) (Result, error) {
	needle := stripQueryNoise(low)
	if needle == "" {
		return Result{}, nil
	}

	emp, err := r.repo.FindFirst(ctx, repository.Contains(repository.FieldDepartment, needle))
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return Result{}, nil
		}
		return Result{}, apperr.Database(err)
	}

	return Result{Handled: true, Text: FormatEmployeeInfo(emp)}, nil
}

// findByNamePair tries exact (first, last), then the swapped order (natural
// phrasing often puts the surname first), then a four-way substring OR over
// both fields in both orders.
func (r *Resolver) findByNamePair(ctx context.Context, firstName, lastName string) (models.Employee, bool, error) {
	preds := []repository.Predicate{
		repository.And(
			repository.Equals(repository.FieldFirstName, firstName),
			repository.Equals(repository.FieldLastName, lastName),
		),
		repository.And(
			repository.Equals(repository.FieldFirstName, lastName),
			repository.Equals(repository.FieldLastName, firstName),
		),
		repository.Or(
			repository.Contains(repository.FieldFirstName, firstName),
			repository.Contains(repository.FieldLastName, lastName),
			repository.Contains(repository.FieldFirstName, lastName),
			repository.Contains(repository.FieldLastName, firstName),
		),
	}

	for _, pred := range preds {
		emp, err := r.repo.FindFirst(ctx, pred)
		if err == nil {
			return emp, true, nil
		}
		if !errors.Is(err, repository.ErrEmployeeNotFound) {
			return models.Employee{}, false, apperr.Database(err)
		}
	}

	return models.Employee{}, false, nil
}

func (r *Resolver) findAndFormat(ctx context.Context, pred repository.Predicate) (Result, error) {
	emp, err := r.repo.FindFirst(ctx, pred)
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return Result{Handled: true, Text: MsgNotFound}, nil
		}
		return Result{}, apperr.Database(err)
	}

	return Result{Handled: true, Text: FormatEmployeeInfo(emp)}, nil
}

// FormatEmployeeInfo renders the employee card, one attribute per line,
// emitting only the attributes the record actually has. The birthday line is
// omitted entirely unless both the day and the month are known.
func FormatEmployeeInfo(emp models.Employee) string {
	lines := []string{"👤 " + emp.FullName()}

	if emp.Position != "" {
		lines = append(lines, "💼 Должность: "+emp.Position)
	}
	if emp.Department != "" {
		lines = append(lines, "📂 Подразделение: "+emp.Department)
	}
	if emp.Email != "" {
		lines = append(lines, "✉ E-Mail: "+emp.Email)
	}
	if emp.Phone != "" {
		lines = append(lines, "📱 Телефон: "+emp.Phone)
	}
	if emp.HasBirthday() {
		lines = append(lines, fmt.Sprintf("🎂 День рождения: %d.%d", *emp.BirthdayDay, *emp.BirthdayMonth))
	}

	return strings.Join(lines, "\n")
}

func formatPosition(emp models.Employee) string {
	if emp.Position != "" {
		return "Должность: " + emp.Position
	}
	return FormatEmployeeInfo(emp)
}

// queryNoiseWords are the leading prepositions and question words stripped
// before matching free text against the department column.
var queryNoiseWords = map[string]struct{}{
	"кто": {}, "что": {}, "какой": {}, "какая": {}, "какие": {},
	"работает": {}, "есть": {}, "сидит": {},
	"в": {}, "во": {}, "на": {}, "из": {}, "по": {}, "у": {}, "за": {},
}

func stripQueryNoise(low string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '?', '!', '.', ',', ':', ';':
			return ' '
		}
		return r
	}, low)

	words := strings.Fields(cleaned)
	start := 0
	for start < len(words) {
		if _, noise := queryNoiseWords[words[start]]; !noise {
			break
		}
		start++
	}

	return strings.Join(words[start:], " ")
}

func containsAny(low string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(low, needle) {
			return true
		}
	}
	return false
}
