// Package subjects holds the static subject catalog and the skill-to-subject
// mapping. Spaced-repetition eligibility is an explicit flag on the subject,
// never inferred from skill id naming conventions.
package subjects

import "sync"

// Subject is one school subject in the catalog.
type Subject struct {
	ID               string
	Name             string
	SpacedRepetition bool
}

// Default subject ids. Only the vocabulary and flashcard subjects use
// spaced repetition.
const (
	SubjectMath       = "matematik"
	SubjectSwedish    = "svenska"
	SubjectVocabulary = "engelska-glosor"
	SubjectBiology    = "biologi-flashcards"
	SubjectHistory    = "historia"
	SubjectPhysics    = "fysik"
)

// DefaultSubjects returns the built-in catalog in display order.
func DefaultSubjects() []Subject {
	return []Subject{
		{ID: SubjectMath, Name: "Matematik"},
		{ID: SubjectSwedish, Name: "Svenska"},
		{ID: SubjectVocabulary, Name: "Engelska glosor", SpacedRepetition: true},
		{ID: SubjectBiology, Name: "Biologi flashcards", SpacedRepetition: true},
		{ID: SubjectHistory, Name: "Historia"},
		{ID: SubjectPhysics, Name: "Fysik"},
	}
}

// Catalog maps subjects to eligibility and skills to subjects.
type Catalog struct {
	mu       sync.RWMutex
	subjects map[string]Subject
	order    []string
	bySkill  map[string]string
}

// NewCatalog builds a catalog from the given subjects.
func NewCatalog(subs []Subject) *Catalog {
	c := &Catalog{
		subjects: make(map[string]Subject, len(subs)),
		bySkill:  make(map[string]string),
	}
	for _, s := range subs {
		c.subjects[s.ID] = s
		c.order = append(c.order, s.ID)
	}
	return c
}

// NewDefaultCatalog builds a catalog with the built-in subjects.
func NewDefaultCatalog() *Catalog {
	return NewCatalog(DefaultSubjects())
}

// RegisterSkill records which subject a skill belongs to.
func (c *Catalog) RegisterSkill(skillID, subjectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bySkill[skillID] = subjectID
}

// Subject returns the subject with the given id.
func (c *Catalog) Subject(subjectID string) (Subject, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.subjects[subjectID]
	return s, ok
}

// SubjectForSkill returns the subject a skill is registered to.
func (c *Catalog) SubjectForSkill(skillID string) (Subject, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	subjectID, ok := c.bySkill[skillID]
	if !ok {
		return Subject{}, false
	}
	s, ok := c.subjects[subjectID]
	return s, ok
}

// All returns the subjects in catalog order.
func (c *Catalog) All() []Subject {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Subject, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.subjects[id])
	}
	return out
}

// IsSpacedRepetition reports whether a subject uses spaced repetition.
func (c *Catalog) IsSpacedRepetition(subjectID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.subjects[subjectID].SpacedRepetition
}

// ShouldUseSpacedRepetition reports whether a skill in the given subject
// should receive a review item. When the skill is registered to a different
// subject than the one claimed, the registration wins.
func (c *Catalog) ShouldUseSpacedRepetition(skillID, subjectID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if registered, ok := c.bySkill[skillID]; ok {
		subjectID = registered
	}
	return c.subjects[subjectID].SpacedRepetition
}
