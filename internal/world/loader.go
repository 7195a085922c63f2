package world

import (
	"bufio"
	"bytes"
	"castlight/internal/logger"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Format selects a map encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatASCII
)

// MapStats counts what a loader accepted and skipped.
type MapStats struct {
	Loaded  int
	Skipped int
}

// MapData is the result of decoding a map file.
type MapData struct {
	Grid         *Grid
	Start        *Cell // player start, when the format carries one
	ChaserSpawns []Cell
	Stats        MapStats
}

// FormatForPath picks a format from the file extension, ignoring a trailing ".zst".
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSuffix(path, ".zst")))
	switch ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".map", ".txt":
		return FormatASCII, nil
	}
	return 0, fmt.Errorf("unknown map format for %s", path)
}

// LoadMap reads and decodes a map file. Files ending in ".zst" are zstd
// compressed. Malformed entries are skipped; only unreadable files fail.
func LoadMap(path string) (*MapData, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open map file %s: %w", path, err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream %s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}

	data, err := DecodeMap(r, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode map %s: %w", path, err)
	}

	logger.Component("world").WithFields(logrus.Fields{
		"path":    path,
		"loaded":  data.Stats.Loaded,
		"skipped": data.Stats.Skipped,
	}).Info("map loaded")
	return data, nil
}

// DecodeMap decodes a map in the given format.
func DecodeMap(r io.Reader, format Format) (*MapData, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(r)
	case FormatYAML:
		return decodeYAML(r)
	case FormatASCII:
		return decodeASCII(r)
	}
	return nil, fmt.Errorf("unsupported map format %d", format)
}

// collector accumulates tiles and counts rejected entries.
type collector struct {
	tiles map[Cell]MaterialID
	stats MapStats
}

func newCollector() *collector {
	return &collector{tiles: make(map[Cell]MaterialID)}
}

func (c *collector) add(cell Cell, id int64) {
	if id < 1 {
		c.skip(cell.String(), "material id must be >= 1")
		return
	}
	if _, dup := c.tiles[cell]; !dup {
		c.stats.Loaded++
	}
	c.tiles[cell] = MaterialID(id)
}

func (c *collector) skip(entry, reason string) {
	c.stats.Skipped++
	logger.Component("world").WithFields(logrus.Fields{
		"entry":  entry,
		"reason": reason,
	}).Debug("skipped map entry")
}

func (c *collector) result() *MapData {
	return &MapData{Grid: NewGrid(c.tiles), Stats: c.stats}
}

// decodeJSON accepts either {"col,row": id} or [{"col":c,"row":r,"material":id}].
func decodeJSON(r io.Reader) (*MapData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty map document")
	}

	c := newCollector()
	if raw[0] == '[' {
		var entries []map[string]json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("invalid map entry list: %w", err)
		}
		for i, entry := range entries {
			col, okCol := jsonInt(entry["col"])
			row, okRow := jsonInt(entry["row"])
			id, okID := jsonInt(entry["material"])
			if !okCol || !okRow || !okID {
				c.skip(fmt.Sprintf("entry %d", i), "col, row and material must be integers")
				continue
			}
			c.add(Cell{Col: int(col), Row: int(row)}, id)
		}
		return c.result(), nil
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, fmt.Errorf("invalid map object: %w", err)
	}
	for key, value := range keyed {
		cell, err := ParseCell(key)
		if err != nil {
			c.skip(key, err.Error())
			continue
		}
		id, ok := jsonInt(value)
		if !ok {
			c.skip(key, "material id is not an integer")
			continue
		}
		c.add(cell, id)
	}
	return c.result(), nil
}

func jsonInt(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	v, err := n.Int64()
	return v, err == nil
}

type yamlMap struct {
	Start   *[2]int              `yaml:"start"`
	Tiles   map[string]yaml.Node `yaml:"tiles"`
	Chasers [][2]int             `yaml:"chasers"`
}

func decodeYAML(r io.Reader) (*MapData, error) {
	var doc yamlMap
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid yaml map: %w", err)
	}

	c := newCollector()
	for key, node := range doc.Tiles {
		cell, err := ParseCell(key)
		if err != nil {
			c.skip(key, err.Error())
			continue
		}
		var id int64
		if err := node.Decode(&id); err != nil {
			c.skip(key, "material id is not an integer")
			continue
		}
		c.add(cell, id)
	}

	data := c.result()
	if doc.Start != nil {
		data.Start = &Cell{Col: doc.Start[0], Row: doc.Start[1]}
	}
	for _, spawn := range doc.Chasers {
		data.ChaserSpawns = append(data.ChaserSpawns, Cell{Col: spawn[0], Row: spawn[1]})
	}
	return data, nil
}

// decodeASCII reads a character grid: digits 1-9 are materials, '.' and ' '
// are empty, '@' marks the player start and 'J' a chaser spawn. Lines starting
// with '#' are comments and do not count as rows.
func decodeASCII(r io.Reader) (*MapData, error) {
	c := newCollector()
	var start *Cell
	var chasers []Cell

	scanner := bufio.NewScanner(r)
	row := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		col := 0
		for _, ch := range line {
			cell := Cell{Col: col, Row: row}
			switch {
			case ch >= '1' && ch <= '9':
				c.add(cell, int64(ch-'0'))
			case ch == '.' || ch == ' ':
			case ch == '@':
				start = &cell
			case ch == 'J':
				chasers = append(chasers, cell)
			default:
				c.skip(cell.String(), fmt.Sprintf("unknown map symbol %q", ch))
			}
			col++
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading map: %w", err)
	}

	data := c.result()
	data.Start = start
	data.ChaserSpawns = chasers
	return data, nil
}
