// Package notify fans out client lifecycle notifications to observers.
//
// The host (browser, app shell) calls the Notify methods on a Manager;
// every registered Observer receives the call. Delivery order across
// observers is unspecified. An observer removed before a notification
// does not receive it. Notifying with no observers is a no-op.
package notify

import (
	"net/url"
	"sync"
	"time"
)

// Observer receives client lifecycle notifications.
// Embed BaseObserver to implement only the methods you need.
type Observer interface {
	// OnLocaleDidChange is called when the operating system locale changes.
	OnLocaleDidChange(locale string)

	// OnPrefDidChange is called when the preference at path changes.
	OnPrefDidChange(path string)

	// OnDidUpdateResourceComponent is called when a resource component updates.
	OnDidUpdateResourceComponent(id string)

	// OnTabTextContentDidChange is called when a page has loaded and its text
	// is available. The current page is the last entry of redirectChain.
	OnTabTextContentDidChange(tabID int32, redirectChain []*url.URL, text string)

	// OnTabHTMLContentDidChange is OnTabTextContentDidChange for HTML.
	OnTabHTMLContentDidChange(tabID int32, redirectChain []*url.URL, html string)

	OnTabDidStartPlayingMedia(tabID int32)
	OnTabDidStopPlayingMedia(tabID int32)

	// OnTabDidChange is called when a tab is updated.
	OnTabDidChange(tabID int32, redirectChain []*url.URL, isVisible, isIncognito bool)

	OnDidCloseTab(tabID int32)

	// OnUserDidBecomeIdle is called once the user passed the idle threshold.
	OnUserDidBecomeIdle()

	// OnUserDidBecomeActive is called when the user is no longer idle.
	OnUserDidBecomeActive(idleTime time.Duration, screenWasLocked bool)

	OnBrowserDidEnterForeground()
	OnBrowserDidEnterBackground()
	OnBrowserDidBecomeActive()
	OnBrowserDidResignActive()
}

// BaseObserver implements Observer with no-op methods.
type BaseObserver struct{}

func (BaseObserver) OnLocaleDidChange(string) {}
func (BaseObserver) OnPrefDidChange(string) {}
func (BaseObserver) OnDidUpdateResourceComponent(string) {}
func (BaseObserver) OnTabTextContentDidChange(int32, []*url.URL, string) {}
func (BaseObserver) OnTabHTMLContentDidChange(int32, []*url.URL, string) {}
func (BaseObserver) OnTabDidStartPlayingMedia(int32) {}
func (BaseObserver) OnTabDidStopPlayingMedia(int32) {}
func (BaseObserver) OnTabDidChange(int32, []*url.URL, bool, bool) {}
func (BaseObserver) OnDidCloseTab(int32) {}
func (BaseObserver) OnUserDidBecomeIdle() {}
func (BaseObserver) OnUserDidBecomeActive(time.Duration, bool) {}
func (BaseObserver) OnBrowserDidEnterForeground() {}
func (BaseObserver) OnBrowserDidEnterBackground() {}
func (BaseObserver) OnBrowserDidBecomeActive() {}
func (BaseObserver) OnBrowserDidResignActive() {}

// Manager keeps the registered observers and fans out notifications.
//
// Observers are compared by identity, so register pointers.
//
// Thread-safety: all methods are safe for concurrent use. Observers are
// called outside the lock and may add or remove observers themselves.
type Manager struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewManager creates a manager with no observers.
func NewManager() *Manager {
	return &Manager{}
}

// AddObserver registers o. Adding the same observer twice is a no-op.
func (m *Manager) AddObserver(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.observers {
		if existing == o {
			return
		}
	}
	m.observers = append(m.observers, o)
}

// RemoveObserver unregisters o. Removing an unknown observer is a no-op.
func (m *Manager) RemoveObserver(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.observers {
		if existing == o {
			m.observers = append(m.observers[:i:i], m.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered observers.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.observers)
}

func (m *Manager) each(fn func(Observer)) {
	m.mu.RLock()
	snapshot := make([]Observer, len(m.observers))
	copy(snapshot, m.observers)
	m.mu.RUnlock()

	for _, o := range snapshot {
		fn(o)
	}
}

func (m *Manager) NotifyLocaleDidChange(locale string) {
	m.each(func(o Observer) { o.OnLocaleDidChange(locale) })
}

func (m *Manager) NotifyPrefDidChange(path string) {
	m.each(func(o Observer) { o.OnPrefDidChange(path) })
}

func (m *Manager) NotifyDidUpdateResourceComponent(id string) {
	m.each(func(o Observer) { o.OnDidUpdateResourceComponent(id) })
}

func (m *Manager) NotifyTabTextContentDidChange(tabID int32, redirectChain []*url.URL, text string) {
	m.each(func(o Observer) { o.OnTabTextContentDidChange(tabID, redirectChain, text) })
}

func (m *Manager) NotifyTabHTMLContentDidChange(tabID int32, redirectChain []*url.URL, html string) {
	m.each(func(o Observer) { o.OnTabHTMLContentDidChange(tabID, redirectChain, html) })
}

func (m *Manager) NotifyTabDidStartPlayingMedia(tabID int32) {
	m.each(func(o Observer) { o.OnTabDidStartPlayingMedia(tabID) })
}

func (m *Manager) NotifyTabDidStopPlayingMedia(tabID int32) {
	m.each(func(o Observer) { o.OnTabDidStopPlayingMedia(tabID) })
}

func (m *Manager) NotifyTabDidChange(tabID int32, redirectChain []*url.URL, isVisible, isIncognito bool) {
	m.each(func(o Observer) { o.OnTabDidChange(tabID, redirectChain, isVisible, isIncognito) })
}

func (m *Manager) NotifyDidCloseTab(tabID int32) {
	m.each(func(o Observer) { o.OnDidCloseTab(tabID) })
}

func (m *Manager) NotifyUserDidBecomeIdle() {
	m.each(func(o Observer) { o.OnUserDidBecomeIdle() })
}

func (m *Manager) NotifyUserDidBecomeActive(idleTime time.Duration, screenWasLocked bool) {
	m.each(func(o Observer) { o.OnUserDidBecomeActive(idleTime, screenWasLocked) })
}

func (m *Manager) NotifyBrowserDidEnterForeground() {
	m.each(func(o Observer) { o.OnBrowserDidEnterForeground() })
}

func (m *Manager) NotifyBrowserDidEnterBackground() {
	m.each(func(o Observer) { o.OnBrowserDidEnterBackground() })
}

func (m *Manager) NotifyBrowserDidBecomeActive() {
	m.each(func(o Observer) { o.OnBrowserDidBecomeActive() })
}

func (m *Manager) NotifyBrowserDidResignActive() {
	m.each(func(o Observer) { o.OnBrowserDidResignActive() })
}
