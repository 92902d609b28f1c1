package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type record struct {
	Name string `json:"name"`
}

func TestAdapterRoundTrip(t *testing.T) {
	m := NewMemMedium()
	a := NewAdapter(m, "k")
	require.True(t, a.Status().Active())

	require.True(t, a.Save([]record{{Name: "a"}, {Name: "b"}}))
	raw := a.Load()
	require.Len(t, raw, 2)

	var r record
	require.NoError(t, Decode(raw[1], &r))
	assert.Equal(t, "b", r.Name)
}

func TestAdapterProbeLeavesNoKey(t *testing.T) {
	m := NewMemMedium()
	NewAdapter(m, "k")
	_, found, err := m.Get(ProbeKey)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAdapterProbeFailureDisables(t *testing.T) {
	m := NewMemMedium()
	m.FailSet = errors.New("quota exceeded")
	var notices []string
	n := NewNotice(func(reason string) { notices = append(notices, reason) })

	a := NewAdapter(m, "k", WithNotice(n))
	assert.Equal(t, StateDisabled, a.Status().State)
	assert.Contains(t, a.Status().Reason, "probe failed")
	assert.Len(t, notices, 1)
	assert.False(t, a.Save([]record{{Name: "x"}}))
}

func TestAdapterNilMedium(t *testing.T) {
	a := NewAdapter(nil, "k")
	assert.False(t, a.Status().Active())
	assert.Nil(t, a.Load())
}

func TestAdapterCorruptPayloadCleared(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	m := NewMemMedium()
	require.NoError(t, m.Set("k", []byte(`{"not":"a list"}`)))

	a := NewAdapter(m, "k", WithLogger(zap.New(core)))
	assert.Nil(t, a.Load())
	_, found, _ := m.Get("k")
	assert.False(t, found, "corrupt payload should be removed")
	assert.True(t, a.Status().Active(), "corruption does not disable persistence")
	assert.Equal(t, 1, logs.FilterMessage("persisted records were invalid, clearing").Len())
}

func TestAdapterNullAndGarbagePayloads(t *testing.T) {
	for _, payload := range []string{"null", "[1, 2", "42"} {
		m := NewMemMedium()
		require.NoError(t, m.Set("k", []byte(payload)))
		a := NewAdapter(m, "k")
		assert.Nil(t, a.Load(), payload)
		_, found, _ := m.Get("k")
		assert.False(t, found, payload)
	}
}

func TestAdapterWriteFailureDisablesOnce(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	m := NewMemMedium()
	n := NewNotice(nil)
	a := NewAdapter(m, "k", WithLogger(zap.New(core)), WithNotice(n))
	require.True(t, a.Status().Active())

	m.FailSet = errors.New("disk full")
	assert.False(t, a.Save([]record{{Name: "x"}}))
	assert.False(t, a.Save([]record{{Name: "y"}}))

	assert.Equal(t, StateDisabled, a.Status().State)
	assert.Contains(t, a.Status().Reason, "disk full")
	assert.True(t, n.Notified())
	assert.Equal(t, 1, logs.FilterMessage("failed to persist records").Len())
}

func TestAdapterReadFailureDisables(t *testing.T) {
	m := NewMemMedium()
	a := NewAdapter(m, "k")
	m.FailGet = errors.New("locked")
	assert.Nil(t, a.Load())
	assert.False(t, a.Status().Active())
}

func TestNoticeFiresOnceUntilReset(t *testing.T) {
	calls := 0
	n := NewNotice(func(string) { calls++ })
	assert.True(t, n.Notify("a"))
	assert.False(t, n.Notify("b"))
	n.Reset()
	assert.True(t, n.Notify("c"))
	assert.Equal(t, 2, calls)
}

func TestSharedNoticeAcrossAdapters(t *testing.T) {
	calls := 0
	n := NewNotice(func(string) { calls++ })
	m := NewMemMedium()
	a := NewAdapter(m, "a", WithNotice(n))
	b := NewAdapter(m, "b", WithNotice(n))
	m.FailSet = errors.New("gone")
	a.Save([]record{})
	b.Save([]record{})
	assert.Equal(t, 1, calls)
	assert.False(t, b.Status().Active())
}
