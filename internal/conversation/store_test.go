package conversation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecrypto/chatclient/internal/models"
)

func TestStoreAppendKeepsInsertionOrder(t *testing.T) {
	s := NewStore()
	s.Append(models.UserMessage("hi"))
	s.Append(models.AIMessage("X"))

	assert.Equal(t, []models.Message{
		{Text: "hi", Sender: models.SenderUser},
		{Text: "X", Sender: models.SenderAI},
	}, s.Messages())
	assert.Equal(t, 2, s.Len())
}

func TestStoreMessagesIsSnapshot(t *testing.T) {
	s := NewStore()
	s.Append(models.UserMessage("original"))

	snapshot := s.Messages()
	snapshot[0] = models.AIMessage("mutated")

	got := s.Messages()
	require.Len(t, got, 1)
	assert.Equal(t, "original", got[0].Text)
	assert.Equal(t, models.SenderUser, got[0].Sender)
}

func TestStoreLast(t *testing.T) {
	s := NewStore()

	_, ok := s.Last()
	assert.False(t, ok, "empty store has no last message")

	s.Append(models.UserMessage("a"))
	s.Append(models.AIMessage("b"))
	s.Append(models.UserMessage("c"))

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "c", last.Text)

	ai, ok := s.LastFrom(models.SenderAI)
	require.True(t, ok)
	assert.Equal(t, "b", ai.Text)

	_, ok = NewStore().LastFrom(models.SenderAI)
	assert.False(t, ok)
}

func TestStoreOnAppendNotifiesInOrder(t *testing.T) {
	s := NewStore()

	var seen []string
	s.OnAppend(func(m models.Message) { seen = append(seen, "first:"+m.Text) })
	s.OnAppend(func(m models.Message) { seen = append(seen, "second:"+m.Text) })
	s.OnAppend(nil)

	s.Append(models.UserMessage("hola"))

	assert.Equal(t, []string{"first:hola", "second:hola"}, seen)
}

func TestStoreObserverCanReadStore(t *testing.T) {
	s := NewStore()

	var lenInObserver int
	s.OnAppend(func(models.Message) { lenInObserver = s.Len() })
	s.Append(models.UserMessage("x"))

	assert.Equal(t, 1, lenInObserver)
}

func TestStoreConcurrentAppend(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Append(models.UserMessage("m"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}

func TestStoreAppendIf(t *testing.T) {
	s := NewStore()
	var seen []models.Message
	s.OnAppend(func(m models.Message) { seen = append(seen, m) })

	assert.False(t, s.AppendIf(models.AIMessage("dropped"), func() bool { return false }))
	assert.True(t, s.AppendIf(models.AIMessage("kept"), func() bool { return true }))

	assert.Equal(t, []models.Message{models.AIMessage("kept")}, s.Messages())
	assert.Equal(t, []models.Message{models.AIMessage("kept")}, seen, "observers only see appended messages")
}
