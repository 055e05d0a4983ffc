package figura

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// snapshotVersion is bumped whenever the encoded layout changes.
const snapshotVersion = 1

type scenarioSnapshot struct {
	Version int             `msgpack:"version"`
	Nodes   []nodeScenarios `msgpack:"nodes"`
}

type nodeScenarios struct {
	Path      string     `msgpack:"path"`
	Names     []string   `msgpack:"names"`
	Scenarios []Scenario `msgpack:"scenarios"`
}

// EncodeScenarios writes every saved scenario of every attached node to w
// as zstd-compressed msgpack. Nodes are identified by path.
func (f *Figure) EncodeScenarios(w io.Writer) error {
	snap := scenarioSnapshot{Version: snapshotVersion}
	f.Walk(func(n *Node) {
		names := n.ScenarioNames()
		if len(names) == 0 {
			return
		}
		ns := nodeScenarios{Path: n.Path(), Names: names}
		for _, name := range names {
			s, _ := n.ScenarioTarget(name)
			ns.Scenarios = append(ns.Scenarios, s)
		}
		snap.Nodes = append(snap.Nodes, ns)
	})

	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("encode scenarios: %w", err)
	}
	if err := msgpack.NewEncoder(zw).Encode(&snap); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode scenarios: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("encode scenarios: %w", err)
	}
	return nil
}

// DecodeScenarios reads scenarios written by EncodeScenarios and stores
// them on the nodes at the recorded paths. Paths that no longer resolve
// are skipped. It returns the number of nodes updated.
func (f *Figure) DecodeScenarios(r io.Reader) (int, error) {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return 0, fmt.Errorf("decode scenarios: %w", err)
	}
	defer zr.Close()

	var snap scenarioSnapshot
	if err := msgpack.NewDecoder(zr).Decode(&snap); err != nil {
		return 0, fmt.Errorf("decode scenarios: %w", err)
	}
	if snap.Version != snapshotVersion {
		return 0, fmt.Errorf("decode scenarios: unsupported version %d", snap.Version)
	}

	count := 0
	for _, ns := range snap.Nodes {
		n, ok := f.Get(ns.Path)
		if !ok {
			Logger().Warn("decode scenarios: path not found", "path", ns.Path)
			continue
		}
		for i, name := range ns.Names {
			if i < len(ns.Scenarios) {
				n.SetScenarioTarget(name, ns.Scenarios[i])
			}
		}
		count++
	}
	return count, nil
}
