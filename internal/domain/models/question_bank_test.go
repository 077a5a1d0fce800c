package models

import (
	"fmt"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func newTestBank(t *testing.T) *QuestionBank {
	bank := DefaultQuestionBank()
	counter := 0
	bank.newID = func() string {
		counter++
		return fmt.Sprintf("q%d", counter)
	}
	return bank
}

func questionTexts(group QuestionCategory) []string {
	return lo.Map(group.Questions, func(item QuestionItem, _ int) string { return item.Question })
}

func Test_DefaultQuestionBank_ShouldSeedFiveEmptyCategories(t *testing.T) {
	bank := DefaultQuestionBank()

	categories := bank.Categories()
	require.Len(t, categories, 5)
	for i, category := range categories {
		assert.Equal(t, i+1, category.ID)
		assert.Equal(t, DefaultCategoryNames[i], category.Category)
		assert.Empty(t, category.Questions)
		assert.Nil(t, category.QuestionCountToAsk)
	}
	assert.False(t, bank.HasQuestions())
}

func Test_NewQuestionBank_WhenIdsRepeat_ShouldFail(t *testing.T) {
	_, err := NewQuestionBank([]QuestionCategory{{ID: 1}, {ID: 1}})
	assert.ErrorIs(t, err, ErrDuplicateCategory)

	_, err = NewQuestionBank([]QuestionCategory{
		{ID: 1, Questions: []QuestionItem{{ID: "a", Question: "x"}}},
		{ID: 2, Questions: []QuestionItem{{ID: "a", Question: "y"}}},
	})
	assert.ErrorIs(t, err, ErrDuplicateQuestion)
}

func Test_Add_ShouldAssignUniqueIdsAndTrackCount(t *testing.T) {
	bank := newTestBank(t)

	first, err := bank.Add(2, "Explain goroutines")
	require.NoError(t, err)
	second, err := bank.Add(2, "Explain channels")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	category, ok := bank.Category(2)
	require.True(t, ok)
	assert.Equal(t, []string{"Explain goroutines", "Explain channels"}, questionTexts(category))
	assert.Equal(t, 2, lo.FromPtr(category.QuestionCountToAsk))
	assert.Equal(t, 2, bank.TotalQuestions())
}

func Test_Add_WhenIdCollides_ShouldRetry(t *testing.T) {
	bank := DefaultQuestionBank()
	ids := []string{"same", "same", "other"}
	bank.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first, err := bank.Add(1, "one")
	require.NoError(t, err)
	second, err := bank.Add(1, "two")
	require.NoError(t, err)

	assert.Equal(t, "same", first.ID)
	assert.Equal(t, "other", second.ID)
}

func Test_Add_WhenExplicitCountIsLower_ShouldKeepIt(t *testing.T) {
	bank := newTestBank(t)
	for _, text := range []string{"a", "b", "c"} {
		_, err := bank.Add(1, text)
		require.NoError(t, err)
	}
	require.NoError(t, bank.SetCountToAsk(1, lo.ToPtr(1)))

	_, err := bank.Add(1, "d")
	require.NoError(t, err)

	category, _ := bank.Category(1)
	assert.Equal(t, 1, lo.FromPtr(category.QuestionCountToAsk))
}

func Test_Add_WhenInputInvalid_ShouldFail(t *testing.T) {
	bank := newTestBank(t)

	_, err := bank.Add(42, "question")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = bank.Add(1, "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Equal(t, 0, bank.TotalQuestions())
}

func Test_Edit_ShouldChangeTextOnly(t *testing.T) {
	bank := newTestBank(t)
	item, _ := bank.Add(3, "old")

	require.NoError(t, bank.Edit(3, item.ID, "new"))

	category, _ := bank.Category(3)
	require.Len(t, category.Questions, 1)
	assert.Equal(t, QuestionItem{ID: item.ID, Question: "new"}, category.Questions[0])
	assert.ErrorIs(t, bank.Edit(3, "missing", "x"), ErrQuestionNotFound)
	assert.ErrorIs(t, bank.Edit(3, item.ID, ""), ErrEmptyQuestion)
}

func Test_Delete_ShouldClampCountToAsk(t *testing.T) {
	bank := newTestBank(t)
	a, _ := bank.Add(1, "a")
	_, _ = bank.Add(1, "b")

	require.NoError(t, bank.Delete(1, a.ID))

	category, _ := bank.Category(1)
	assert.Equal(t, []string{"b"}, questionTexts(category))
	assert.Equal(t, 1, lo.FromPtr(category.QuestionCountToAsk))
	assert.ErrorIs(t, bank.Delete(1, a.ID), ErrQuestionNotFound)
}

func Test_SetCountToAsk_WhenOutOfRange_ShouldFail(t *testing.T) {
	bank := newTestBank(t)
	_, _ = bank.Add(1, "a")

	assert.ErrorIs(t, bank.SetCountToAsk(1, lo.ToPtr(2)), ErrInvalidCountToAsk)
	assert.ErrorIs(t, bank.SetCountToAsk(1, lo.ToPtr(-1)), ErrInvalidCountToAsk)
	assert.NoError(t, bank.SetCountToAsk(1, lo.ToPtr(0)))
	assert.NoError(t, bank.SetCountToAsk(1, nil))

	category, _ := bank.Category(1)
	assert.Nil(t, category.QuestionCountToAsk)
}

func Test_MoveCategory_ShouldReorderAndClampIndex(t *testing.T) {
	bank := newTestBank(t)

	require.NoError(t, bank.MoveCategory(5, 0))
	require.NoError(t, bank.MoveCategory(1, 100))

	ids := lo.Map(bank.Categories(), func(c QuestionCategory, _ int) int { return c.ID })
	assert.Equal(t, []int{5, 2, 3, 4, 1}, ids)
	assert.ErrorIs(t, bank.MoveCategory(9, 0), ErrCategoryNotFound)
}

func Test_MoveItem_WithinCategory_ShouldInsertAtDestination(t *testing.T) {
	bank := newTestBank(t)
	a, _ := bank.Add(1, "a")
	_, _ = bank.Add(1, "b")
	c, _ := bank.Add(1, "c")

	require.NoError(t, bank.MoveItem(a.ID, 1, 1, lo.ToPtr(2)))
	category, _ := bank.Category(1)
	assert.Equal(t, []string{"b", "c", "a"}, questionTexts(category))

	require.NoError(t, bank.MoveItem(c.ID, 1, 1, nil))
	category, _ = bank.Category(1)
	assert.Equal(t, []string{"c", "b", "a"}, questionTexts(category))
}

func Test_MoveItem_AcrossCategories_ShouldKeepIdAndClampSource(t *testing.T) {
	bank := newTestBank(t)
	a, _ := bank.Add(1, "a")
	_, _ = bank.Add(1, "b")
	_, _ = bank.Add(2, "x")

	require.NoError(t, bank.MoveItem(a.ID, 1, 2, lo.ToPtr(0)))

	source, _ := bank.Category(1)
	target, _ := bank.Category(2)
	assert.Equal(t, []string{"b"}, questionTexts(source))
	assert.Equal(t, 1, lo.FromPtr(source.QuestionCountToAsk))
	assert.Equal(t, []string{"x", "a"}, questionTexts(target))
	assert.Equal(t, a.ID, target.Questions[1].ID)
	assert.Equal(t, 3, bank.TotalQuestions())
}

func Test_Categories_ShouldReturnSnapshot(t *testing.T) {
	bank := newTestBank(t)
	_, _ = bank.Add(1, "a")

	snapshot := bank.Categories()
	snapshot[0].Questions[0].Question = "mutated"
	*snapshot[0].QuestionCountToAsk = 99

	category, _ := bank.Category(1)
	assert.Equal(t, "a", category.Questions[0].Question)
	assert.Equal(t, 1, lo.FromPtr(category.QuestionCountToAsk))
}

func Test_CategoryIDByName_ShouldIgnoreCase(t *testing.T) {
	bank := DefaultQuestionBank()

	id, ok := bank.CategoryIDByName(" technical ")
	assert.True(t, ok)
	assert.Equal(t, 2, id)

	_, ok = bank.CategoryIDByName("Culture")
	assert.False(t, ok)
}
