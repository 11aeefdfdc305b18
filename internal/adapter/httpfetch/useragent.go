package httpfetch

import (
	"math/rand"
	"sync"
	"time"
)

var desktopUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

// UserAgentPool hands out user agents at random.
type UserAgentPool struct {
	agents []string
	mu     sync.Mutex
	rnd    *rand.Rand
}

// NewUserAgentPool uses the built-in desktop agents when none are given.
func NewUserAgentPool(agents ...string) *UserAgentPool {
	if len(agents) == 0 {
		agents = desktopUserAgents
	}
	return &UserAgentPool{
		agents: agents,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *UserAgentPool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.agents[p.rnd.Intn(len(p.agents))]
}
