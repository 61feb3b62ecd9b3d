package cache

import (
	"fmt"
	"math/bits"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

// MemPort is the slice of the memory array the cache needs: reading a
// block's backing bytes and writing one back. The cache never owns the
// simulator; it borrows a memory handle per operation (design note §9),
// which is why this is a narrow interface rather than an embedded
// back-pointer.
type MemPort interface {
	Bytes(addr int64, count int) ([]byte, error)
	SetBytes(addr int64, data []byte) error
}

// Cache is an S-set, A-way set-associative data cache.
type Cache struct {
	cfg Config

	sets          int
	ways          int
	blockSize     int
	blockOffsetSh uint
	setBitsSh     uint

	table [][]line

	timeCounter int64
	hits        int64
	misses      int64

	logPath string
	logFile *os.File
}

// New constructs a cache from cfg. logPath is the access-log path (see
// SourceLogPath), opened lazily on first access.
func New(cfg Config, logPath string) *Cache {
	assoc := cfg.Associativity
	if assoc == 0 {
		assoc = cfg.CacheSize / cfg.BlockSize
	}
	sets := cfg.CacheSize / (cfg.BlockSize * assoc)

	c := &Cache{
		cfg:           cfg,
		sets:          sets,
		ways:          assoc,
		blockSize:     cfg.BlockSize,
		blockOffsetSh: uint(bits.TrailingZeros(uint(cfg.BlockSize))),
		setBitsSh:     uint(bits.TrailingZeros(uint(sets))),
		logPath:       logPath,
	}
	c.table = make([][]line, sets)
	for i := range c.table {
		c.table[i] = make([]line, assoc)
		for j := range c.table[i] {
			c.table[i][j].block = make([]byte, cfg.BlockSize)
		}
	}
	return c
}

func (c *Cache) decompose(addr int64) (offset, set, tag int64) {
	offset = addr & int64(c.blockSize-1)
	set = (addr >> c.blockOffsetSh) & int64(c.sets-1)
	tag = addr >> (c.blockOffsetSh + c.setBitsSh)
	return
}

func (c *Cache) blockAddr(tag, set int64) int64 {
	return ((tag << c.setBitsSh) + set) << c.blockOffsetSh
}

func (c *Cache) checkHitOrMiss(set int, tag int64) int {
	for i, ln := range c.table[set] {
		if ln.valid && ln.tag == tag {
			return i
		}
	}
	return -1
}

func (c *Cache) findVictim(set int) int {
	if c.cfg.Replacement == RANDOM {
		return rand.Intn(c.ways)
	}
	best := -1
	var bestRP int64
	for i, ln := range c.table[set] {
		if !ln.valid {
			return i
		}
		if best == -1 || ln.rp < bestRP {
			best = i
			bestRP = ln.rp
		}
	}
	return best
}

func extractValue(block []byte, offset int64, width int, signed bool) int64 {
	n := width / 8
	var v uint64
	for i := 0; i < n; i++ {
		v |= uint64(block[int(offset)+i]) << (8 * i)
	}
	if signed && width < 64 && (v>>(uint(width)-1))&1 == 1 {
		v |= ^uint64(0) << uint(width)
	}
	return int64(v)
}

func insertValue(block []byte, offset int64, width int, data int64) {
	n := width / 8
	u := uint64(data)
	for i := 0; i < n; i++ {
		block[int(offset)+i] = byte(u >> (8 * i))
	}
}

// Read performs a data load through the cache (spec.md §4.6).
func (c *Cache) Read(m MemPort, addr int64, width int, signed bool) (int64, error) {
	offset, set, tag := c.decompose(addr)
	idx := c.checkHitOrMiss(int(set), tag)

	if idx == -1 {
		c.misses++
		idx = c.findVictim(int(set))
		ln := &c.table[set][idx]

		if c.cfg.Write == WB && ln.valid && ln.dirty {
			if err := m.SetBytes(c.blockAddr(ln.tag, set), ln.block); err != nil {
				return 0, err
			}
		}

		blockBase := (addr >> c.blockOffsetSh) << c.blockOffsetSh
		fresh, err := m.Bytes(blockBase, c.blockSize)
		if err != nil {
			return 0, err
		}
		copy(ln.block, fresh)
		ln.valid = true
		ln.dirty = false
		ln.tag = tag
		c.timeCounter++
		ln.rp = c.timeCounter

		c.logAccess("R", addr, set, tag, false, ln.dirty)
		return extractValue(ln.block, offset, width, signed), nil
	}

	c.hits++
	ln := &c.table[set][idx]
	if c.cfg.Replacement == LRU {
		c.timeCounter++
		ln.rp = c.timeCounter
	}
	c.logAccess("R", addr, set, tag, true, ln.dirty)
	return extractValue(ln.block, offset, width, signed), nil
}

// Write performs a data store through the cache (spec.md §4.6).
func (c *Cache) Write(m MemPort, addr int64, data int64, width int) error {
	offset, set, tag := c.decompose(addr)
	idx := c.checkHitOrMiss(int(set), tag)

	if idx == -1 {
		c.misses++
		if c.cfg.Write == WT {
			// no-write-allocate: write straight to memory, cache unchanged
			var raw [8]byte
			n := width / 8
			u := uint64(data)
			for i := 0; i < n; i++ {
				raw[i] = byte(u >> (8 * i))
			}
			if err := m.SetBytes(addr, raw[:n]); err != nil {
				return err
			}
			c.logAccess("W", addr, set, tag, false, false)
			return nil
		}

		// write-allocate (WB): evict, fetch, then apply the write
		idx = c.findVictim(int(set))
		ln := &c.table[set][idx]
		if ln.valid && ln.dirty {
			if err := m.SetBytes(c.blockAddr(ln.tag, set), ln.block); err != nil {
				return err
			}
		}
		blockBase := (addr >> c.blockOffsetSh) << c.blockOffsetSh
		fresh, err := m.Bytes(blockBase, c.blockSize)
		if err != nil {
			return err
		}
		copy(ln.block, fresh)
		insertValue(ln.block, offset, width, data)
		ln.valid = true
		ln.dirty = true
		ln.tag = tag
		c.timeCounter++
		ln.rp = c.timeCounter
		c.logAccess("W", addr, set, tag, false, ln.dirty)
		return nil
	}

	c.hits++
	ln := &c.table[set][idx]
	insertValue(ln.block, offset, width, data)
	if c.cfg.Write == WT {
		var raw [8]byte
		n := width / 8
		u := uint64(data)
		for i := 0; i < n; i++ {
			raw[i] = byte(u >> (8 * i))
		}
		if err := m.SetBytes(addr, raw[:n]); err != nil {
			return err
		}
	} else {
		ln.dirty = true
	}
	if c.cfg.Replacement == LRU {
		c.timeCounter++
		ln.rp = c.timeCounter
	}
	c.logAccess("W", addr, set, tag, true, ln.dirty)
	return nil
}

// Invalidate writes back every valid dirty line and clears validity on all
// lines.
func (c *Cache) Invalidate(m MemPort) error {
	for set := range c.table {
		for i := range c.table[set] {
			ln := &c.table[set][i]
			if ln.valid && ln.dirty {
				if err := m.SetBytes(c.blockAddr(ln.tag, int64(set)), ln.block); err != nil {
					return err
				}
			}
			ln.valid = false
		}
	}
	return nil
}

// Stats returns the accesses, hits, misses and hit rate (0 if no accesses
// yet).
func (c *Cache) Stats() (accesses, hits, misses int64, hitRate float64) {
	hits, misses = c.hits, c.misses
	accesses = hits + misses
	if accesses > 0 {
		hitRate = float64(hits) / float64(accesses)
	}
	return
}

// Status returns the cache's configuration, for the "cache_sim status"
// command.
func (c *Cache) Status() Config {
	return c.cfg
}

// DumpLine is one record of a cache dump: one per valid line.
type DumpLine struct {
	Set   int
	Tag   int64
	Dirty bool
}

// Dump writes one record per valid line ("set, tag, dirty-flag") to path.
func (c *Cache) Dump(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for set := range c.table {
		for _, ln := range c.table[set] {
			if !ln.valid {
				continue
			}
			state := "Clean"
			if ln.dirty {
				state = "Dirty"
			}
			fmt.Fprintf(f, "Set: 0x%x, Tag: 0x%x, %s\n", set, ln.tag, state)
		}
	}
	return nil
}

// DumpLines returns the same records Dump writes, for callers (tests, the
// inspection API) that want structured data instead of a file.
func (c *Cache) DumpLines() []DumpLine {
	var out []DumpLine
	for set := range c.table {
		for _, ln := range c.table[set] {
			if ln.valid {
				out = append(out, DumpLine{Set: set, Tag: ln.tag, Dirty: ln.dirty})
			}
		}
	}
	return out
}

func (c *Cache) logAccess(op string, addr int64, set int64, tag int64, hit bool, dirty bool) {
	if c.logFile == nil {
		f, err := os.OpenFile(c.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return
		}
		c.logFile = f
	}
	result := "Miss"
	if hit {
		result = "Hit"
	}
	state := "Clean"
	if dirty {
		state = "Dirty"
	}
	fmt.Fprintf(c.logFile, "%s: Address: 0x%x, Set: 0x%x, %s, Tag: 0x%x, %s\n", op, addr, set, result, tag, state)
}

// Close flushes and closes the access log file, if it was opened.
func (c *Cache) Close() error {
	if c.logFile == nil {
		return nil
	}
	err := c.logFile.Close()
	c.logFile = nil
	return err
}

// SourceLogPath derives the "<basename>.output" access-log path for a
// given assembly source path (spec.md §6).
func SourceLogPath(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ".output"
}
