package notify

import (
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingObserver records the name of every notification it receives.
type recordingObserver struct {
	BaseObserver

	mu    sync.Mutex
	calls []string
}

func (r *recordingObserver) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

func (r *recordingObserver) received() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recordingObserver) OnLocaleDidChange(locale string) { r.record("locale:" + locale) }
func (r *recordingObserver) OnPrefDidChange(path string)     { r.record("pref:" + path) }
func (r *recordingObserver) OnUserDidBecomeIdle()            { r.record("idle") }
func (r *recordingObserver) OnBrowserDidEnterBackground()    { r.record("background") }

func (r *recordingObserver) OnTabDidChange(_ int32, redirectChain []*url.URL, _, _ bool) {
	r.record("tab:" + redirectChain[len(redirectChain)-1].String())
}

func (r *recordingObserver) OnUserDidBecomeActive(idle time.Duration, _ bool) {
	r.record("active:" + idle.String())
}

func TestManager_FansOutToEveryObserver(t *testing.T) {
	m := NewManager()
	a, b := &recordingObserver{}, &recordingObserver{}
	m.AddObserver(a)
	m.AddObserver(b)

	m.NotifyLocaleDidChange("en_US")
	m.NotifyPrefDidChange("brave.brave_ads.enabled")

	for _, o := range []*recordingObserver{a, b} {
		assert.Equal(t, []string{"locale:en_US", "pref:brave.brave_ads.enabled"}, o.received())
	}
}

func TestManager_ForwardsArguments(t *testing.T) {
	m := NewManager()
	o := &recordingObserver{}
	m.AddObserver(o)

	chain := []*url.URL{
		{Scheme: "https", Host: "example.com"},
		{Scheme: "https", Host: "brave.com", Path: "/landing"},
	}
	m.NotifyTabDidChange(1, chain, true, false)
	m.NotifyUserDidBecomeActive(90*time.Second, false)

	assert.Equal(t, []string{"tab:https://brave.com/landing", "active:1m30s"}, o.received())
}

func TestManager_RemovedObserverIsNotNotified(t *testing.T) {
	m := NewManager()
	a, b := &recordingObserver{}, &recordingObserver{}
	m.AddObserver(a)
	m.AddObserver(b)

	m.RemoveObserver(a)
	m.NotifyUserDidBecomeIdle()

	assert.Empty(t, a.received())
	assert.Equal(t, []string{"idle"}, b.received())
}

func TestManager_AddIsIdempotent(t *testing.T) {
	m := NewManager()
	o := &recordingObserver{}
	m.AddObserver(o)
	m.AddObserver(o)

	require.Equal(t, 1, m.Len())

	m.NotifyBrowserDidEnterBackground()
	assert.Equal(t, []string{"background"}, o.received())
}

func TestManager_RemoveUnknownIsNoop(t *testing.T) {
	m := NewManager()
	m.AddObserver(&recordingObserver{})

	m.RemoveObserver(&recordingObserver{})

	assert.Equal(t, 1, m.Len())
}

func TestManager_NoObservers(t *testing.T) {
	m := NewManager()

	assert.NotPanics(t, func() {
		m.NotifyBrowserDidBecomeActive()
		m.NotifyDidCloseTab(1)
	})
}

func TestBaseObserver_IgnoresEverything(t *testing.T) {
	m := NewManager()
	m.AddObserver(&BaseObserver{})

	assert.NotPanics(t, func() {
		m.NotifyLocaleDidChange("en")
		m.NotifyPrefDidChange("p")
		m.NotifyDidUpdateResourceComponent("id")
		m.NotifyTabTextContentDidChange(1, nil, "text")
		m.NotifyTabHTMLContentDidChange(1, nil, "<html>")
		m.NotifyTabDidStartPlayingMedia(1)
		m.NotifyTabDidStopPlayingMedia(1)
		m.NotifyTabDidChange(1, nil, true, true)
		m.NotifyDidCloseTab(1)
		m.NotifyUserDidBecomeIdle()
		m.NotifyUserDidBecomeActive(time.Second, true)
		m.NotifyBrowserDidEnterForeground()
		m.NotifyBrowserDidEnterBackground()
		m.NotifyBrowserDidBecomeActive()
		m.NotifyBrowserDidResignActive()
	})
}

// selfRemovingObserver unregisters itself on first notification.
type selfRemovingObserver struct {
	BaseObserver
	m     *Manager
	calls int
}

func (s *selfRemovingObserver) OnUserDidBecomeIdle() {
	s.calls++
	s.m.RemoveObserver(s)
}

func TestManager_ObserverMayRemoveItself(t *testing.T) {
	m := NewManager()
	o := &selfRemovingObserver{m: m}
	m.AddObserver(o)

	m.NotifyUserDidBecomeIdle()
	m.NotifyUserDidBecomeIdle()

	assert.Equal(t, 1, o.calls)
	assert.Zero(t, m.Len())
}

func TestManager_ConcurrentUse(t *testing.T) {
	m := NewManager()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			o := &recordingObserver{}
			m.AddObserver(o)
			m.RemoveObserver(o)
		}()
		go func() {
			defer wg.Done()
			m.NotifyUserDidBecomeIdle()
		}()
	}
	wg.Wait()

	assert.Zero(t, m.Len())
}
