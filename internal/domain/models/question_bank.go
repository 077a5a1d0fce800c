package models

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"strings"
)

var (
	ErrCategoryNotFound  = errors.New("question category not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrDuplicateCategory = errors.New("duplicate question category id")
	ErrDuplicateQuestion = errors.New("duplicate question id")
	ErrEmptyQuestion     = errors.New("question text is empty")
	ErrInvalidCountToAsk = errors.New("count to ask must be between zero and the number of questions")
)

type QuestionItem struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

type QuestionCategory struct {
	ID                 int            `json:"id"`
	Category           string         `json:"category"`
	QuestionCountToAsk *int           `json:"questionCountToAsk"`
	Questions          []QuestionItem `json:"questions"`
}

func (g QuestionCategory) clone() QuestionCategory {
	clone := g
	if g.QuestionCountToAsk != nil {
		count := *g.QuestionCountToAsk
		clone.QuestionCountToAsk = &count
	}
	if g.Questions != nil {
		clone.Questions = append([]QuestionItem{}, g.Questions...)
	}
	return clone
}

var DefaultCategoryNames = []string{
	"CV Validation / Experience",
	"Technical",
	"Behavioral",
	"Analytical",
	"Others",
}

// DefaultQuestionCategories returns the five seeded categories with ids 1..5.
func DefaultQuestionCategories() []QuestionCategory {
	return lo.Map(DefaultCategoryNames, func(name string, i int) QuestionCategory {
		return QuestionCategory{ID: i + 1, Category: name, Questions: []QuestionItem{}}
	})
}

type bankCategory struct {
	id         int
	name       string
	countToAsk *int
	itemOrder  []string
}

// QuestionBank keeps categories and items in arenas keyed by id.
// Ordering lives only in the index lists, so moves never change an id.
type QuestionBank struct {
	order      []int
	categories map[int]*bankCategory
	items      map[string]QuestionItem
	newID      func() string
}

func NewQuestionBank(groups []QuestionCategory) (*QuestionBank, error) {
	bank := &QuestionBank{
		categories: make(map[int]*bankCategory, len(groups)),
		items:      make(map[string]QuestionItem),
		newID:      uuid.NewString,
	}

	for _, group := range groups {
		if _, exists := bank.categories[group.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateCategory, group.ID)
		}

		category := &bankCategory{id: group.ID, name: group.Category, itemOrder: make([]string, 0, len(group.Questions))}
		if group.QuestionCountToAsk != nil {
			count := *group.QuestionCountToAsk
			category.countToAsk = &count
		}

		for _, item := range group.Questions {
			if _, exists := bank.items[item.ID]; exists {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateQuestion, item.ID)
			}
			bank.items[item.ID] = item
			category.itemOrder = append(category.itemOrder, item.ID)
		}
		category.clampCount()

		bank.categories[group.ID] = category
		bank.order = append(bank.order, group.ID)
	}

	return bank, nil
}

func DefaultQuestionBank() *QuestionBank {
	bank, _ := NewQuestionBank(DefaultQuestionCategories())
	return bank
}

// Categories returns a snapshot in display order.
func (b *QuestionBank) Categories() []QuestionCategory {
	return lo.Map(b.order, func(id int, _ int) QuestionCategory {
		return b.snapshot(b.categories[id])
	})
}

func (b *QuestionBank) Category(categoryID int) (QuestionCategory, bool) {
	category, ok := b.categories[categoryID]
	if !ok {
		return QuestionCategory{}, false
	}
	return b.snapshot(category), true
}

func (b *QuestionBank) CategoryIDByName(name string) (int, bool) {
	id, ok := lo.Find(b.order, func(id int) bool {
		return strings.EqualFold(b.categories[id].name, strings.TrimSpace(name))
	})
	return id, ok
}

func (b *QuestionBank) TotalQuestions() int {
	return len(b.items)
}

func (b *QuestionBank) HasQuestions() bool {
	return lo.SomeBy(b.order, func(id int) bool {
		return len(b.categories[id].itemOrder) > 0
	})
}

// Add appends a question with a fresh id. A count to ask that was unset or
// tracking the full list follows the new size; a smaller explicit choice stays.
func (b *QuestionBank) Add(categoryID int, text string) (QuestionItem, error) {
	category, ok := b.categories[categoryID]
	if !ok {
		return QuestionItem{}, ErrCategoryNotFound
	}
	if strings.TrimSpace(text) == "" {
		return QuestionItem{}, ErrEmptyQuestion
	}

	id := b.newID()
	for _, exists := b.items[id]; exists; _, exists = b.items[id] {
		id = b.newID()
	}

	tracking := category.countToAsk == nil || *category.countToAsk >= len(category.itemOrder)

	item := QuestionItem{ID: id, Question: text}
	b.items[id] = item
	category.itemOrder = append(category.itemOrder, id)

	if tracking {
		category.setCount(len(category.itemOrder))
	}
	return item, nil
}

func (b *QuestionBank) Edit(categoryID int, itemID string, text string) error {
	category, ok := b.categories[categoryID]
	if !ok {
		return ErrCategoryNotFound
	}
	if !lo.Contains(category.itemOrder, itemID) {
		return ErrQuestionNotFound
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyQuestion
	}

	item := b.items[itemID]
	item.Question = text
	b.items[itemID] = item
	return nil
}

func (b *QuestionBank) Delete(categoryID int, itemID string) error {
	category, ok := b.categories[categoryID]
	if !ok {
		return ErrCategoryNotFound
	}
	index := lo.IndexOf(category.itemOrder, itemID)
	if index < 0 {
		return ErrQuestionNotFound
	}

	category.itemOrder = removeAt(category.itemOrder, index)
	delete(b.items, itemID)
	category.clampCount()
	return nil
}

// SetCountToAsk records an explicit choice; nil unsets it.
func (b *QuestionBank) SetCountToAsk(categoryID int, count *int) error {
	category, ok := b.categories[categoryID]
	if !ok {
		return ErrCategoryNotFound
	}
	if count == nil {
		category.countToAsk = nil
		return nil
	}
	if *count < 0 || *count > len(category.itemOrder) {
		return ErrInvalidCountToAsk
	}
	category.setCount(*count)
	return nil
}

// MoveCategory reinserts the category at destinationIndex, clamped to the list bounds.
func (b *QuestionBank) MoveCategory(categoryID int, destinationIndex int) error {
	index := lo.IndexOf(b.order, categoryID)
	if index < 0 {
		return ErrCategoryNotFound
	}
	b.order = insertAt(removeAt(b.order, index), destinationIndex, categoryID)
	return nil
}

// MoveItem reorders within a category when from and to match, inserting at
// destinationIndex (front of the list when nil). Across categories the item is
// appended to the destination and the source count to ask is clamped.
func (b *QuestionBank) MoveItem(itemID string, fromCategoryID int, toCategoryID int, destinationIndex *int) error {
	from, ok := b.categories[fromCategoryID]
	if !ok {
		return ErrCategoryNotFound
	}
	to, ok := b.categories[toCategoryID]
	if !ok {
		return ErrCategoryNotFound
	}
	index := lo.IndexOf(from.itemOrder, itemID)
	if index < 0 {
		return ErrQuestionNotFound
	}

	from.itemOrder = removeAt(from.itemOrder, index)

	if from == to {
		from.itemOrder = insertAt(from.itemOrder, lo.FromPtr(destinationIndex), itemID)
		return nil
	}

	to.itemOrder = append(to.itemOrder, itemID)
	from.clampCount()
	return nil
}

func (b *QuestionBank) snapshot(category *bankCategory) QuestionCategory {
	group := QuestionCategory{
		ID:        category.id,
		Category:  category.name,
		Questions: lo.Map(category.itemOrder, func(id string, _ int) QuestionItem { return b.items[id] }),
	}
	if category.countToAsk != nil {
		count := *category.countToAsk
		group.QuestionCountToAsk = &count
	}
	return group
}

func (c *bankCategory) setCount(count int) {
	c.countToAsk = &count
}

func (c *bankCategory) clampCount() {
	if c.countToAsk != nil && *c.countToAsk > len(c.itemOrder) {
		c.setCount(len(c.itemOrder))
	}
}

func removeAt[T any](list []T, index int) []T {
	result := make([]T, 0, len(list)-1)
	result = append(result, list[:index]...)
	return append(result, list[index+1:]...)
}

func insertAt[T any](list []T, index int, value T) []T {
	index = max(0, min(index, len(list)))
	result := make([]T, 0, len(list)+1)
	result = append(result, list[:index]...)
	result = append(result, value)
	return append(result, list[index:]...)
}
