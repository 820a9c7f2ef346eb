package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalizerEnglish(t *testing.T) {
	loc := New(LanguageEn)
	assert.Equal(t, "Task Manager", loc.T("appTitle"))
	assert.Equal(t, "Overdue", loc.T("statusOverdue"))
}

func TestLocalizerRussian(t *testing.T) {
	loc := New(LanguageRu)
	assert.Equal(t, "Менеджер задач", loc.T("appTitle"))
	assert.Equal(t, "Выполнена", loc.T("statusCompleted"))
	assert.Equal(t, "Введите название задачи", loc.T("errEmptyTitle"))
}

func TestUnknownLanguageFallsBackToEnglish(t *testing.T) {
	loc := New("de")
	assert.Equal(t, "Task Manager", loc.T("appTitle"))
}

func TestUnknownMessageReturnsID(t *testing.T) {
	loc := New(LanguageEn)
	assert.Equal(t, "doesNotExist", loc.T("doesNotExist"))
}
