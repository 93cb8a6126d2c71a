package launcher

import (
	"errors"
	"testing"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

func recorder(calls *[]call, err error) Option {
	return WithStarter(func(name string, args ...string) error {
		*calls = append(*calls, call{name, args})
		return err
	})
}

func TestTitleURL(t *testing.T) {
	assert.Equal(t, "https://www.themoviedb.org/movie/550", TitleURL(domain.NewKey(550, domain.MediaTypeMovie)))
	assert.Equal(t, "https://www.themoviedb.org/tv/1396", TitleURL(domain.NewKey(1396, domain.MediaTypeTV)))
}

func TestOpen(t *testing.T) {
	const url = "https://www.themoviedb.org/movie/550"

	tests := []struct {
		name    string
		command string
		args    []string
		goos    string
		want    call
	}{
		{"Configured Browser", "firefox", []string{"--new-tab"}, "linux", call{"firefox", []string{"--new-tab", url}}},
		{"Linux Default", "", nil, "linux", call{"xdg-open", []string{url}}},
		{"Mac Default", "", nil, "darwin", call{"open", []string{url}}},
		{"Windows Default", "", nil, "windows", call{"cmd", []string{"/c", "start", "", url}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []call
			l := New(tt.command, tt.args, log.NullLogger(), WithOS(tt.goos), recorder(&calls, nil))
			require.NoError(t, l.Open(url))
			require.Len(t, calls, 1)
			assert.Equal(t, tt.want, calls[0])
		})
	}

	t.Run("Start Failure", func(t *testing.T) {
		var calls []call
		l := New("nobrowser", nil, log.NullLogger(), recorder(&calls, errors.New("not found")))
		assert.ErrorContains(t, l.Open(url), "nobrowser")
	})
}
