package overlaysync

import (
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
)

func TestWatcherRelevant(t *testing.T) {
	w := &watcher{name: "skin.json"}

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: "/data/skin.json", Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: "/data/skin.json", Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: "/data/skin.json", Op: fsnotify.Rename}, true},
		{"write and chmod", fsnotify.Event{Name: "/data/skin.json", Op: fsnotify.Write | fsnotify.Chmod}, true},
		{"chmod only", fsnotify.Event{Name: "/data/skin.json", Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: "/data/skin.json", Op: fsnotify.Remove}, false},
		{"other file", fsnotify.Event{Name: "/data/other.json", Op: fsnotify.Write}, false},
		{"temp artifact", fsnotify.Event{Name: "/data/.skin.json.4821.tmp", Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.ev))
		})
	}
}
