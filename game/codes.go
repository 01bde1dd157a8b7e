package game

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// Join codes avoid 0 and O; every other digit and uppercase letter is
// unambiguous when read aloud or typed from a screen.
const codeAlphabet = "ABCDEFGHIJKLMNPQRSTUVWXYZ123456789"

const CodeLength = 6

// CodeGen hands out join codes unique among the currently active games.
// Dispose returns a code to the pool once its game is unregistered.
type CodeGen struct {
	mu    sync.Mutex
	inUse map[string]struct{}
}

func NewCodeGen() *CodeGen {
	return &CodeGen{inUse: make(map[string]struct{})}
}

func (c *CodeGen) Generate() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		code := randomCode(CodeLength)
		if _, taken := c.inUse[code]; taken {
			continue
		}
		c.inUse[code] = struct{}{}
		return code
	}
}

func (c *CodeGen) Dispose(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inUse, normalizeCode(code))
}

func randomCode(length int) string {
	var b strings.Builder
	b.Grow(length)
	for range length {
		b.WriteByte(codeAlphabet[rand.IntN(len(codeAlphabet))])
	}
	return b.String()
}
