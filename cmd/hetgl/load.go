package main

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/LucaCappelletti94/heterogeneous-graphlets/hetgl"
	"github.com/LucaCappelletti94/heterogeneous-graphlets/libhetgl"
)

// LoadGraphCSV reads a typed graph from csv files.
//
// The node file holds "node_id,node_type" rows; it may be omitted, in which
// case every node referenced by an edge gets type 0. The edge file holds
// "src,dst[,edge_type]" rows. Node ids must be dense zero-based integers.
// A header row is skipped if its first field is not numeric.
func LoadGraphCSV(nodesPath, edgesPath string, directed bool) (*libhetgl.Graph, error) {
	type rawEdge struct {
		src, dst hetgl.NodeID
		et       hetgl.EdgeType
	}
	var (
		edges    []rawEdge
		types    = map[hetgl.NodeID]hetgl.NodeType{}
		maxNode  = hetgl.NodeID(-1)
		seenNode = func(n hetgl.NodeID) {
			if n > maxNode {
				maxNode = n
			}
		}
	)

	err := readCSVRows(edgesPath, func(row []string) error {
		if len(row) < 2 {
			return errors.Errorf("edge row needs src,dst got %v", row)
		}
		src, err := parseNodeID(row[0])
		if err != nil {
			return err
		}
		dst, err := parseNodeID(row[1])
		if err != nil {
			return err
		}
		et := hetgl.EdgeType(0)
		if len(row) > 2 && row[2] != "" {
			v, err := strconv.ParseUint(row[2], 10, 8)
			if err != nil {
				return errors.Wrapf(hetgl.ErrBadEdgeType, "%q", row[2])
			}
			et = hetgl.EdgeType(v)
		}
		seenNode(src)
		seenNode(dst)
		edges = append(edges, rawEdge{src: src, dst: dst, et: et})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "loading edges from %s", edgesPath)
	}

	if nodesPath != "" {
		err = readCSVRows(nodesPath, func(row []string) error {
			if len(row) < 2 {
				return errors.Errorf("node row needs node_id,node_type got %v", row)
			}
			n, err := parseNodeID(row[0])
			if err != nil {
				return err
			}
			v, err := strconv.ParseUint(row[1], 10, 8)
			if err != nil {
				return errors.Wrapf(hetgl.ErrBadNodeType, "%q", row[1])
			}
			seenNode(n)
			types[n] = hetgl.NodeType(v)
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "loading nodes from %s", nodesPath)
		}
	}

	b := libhetgl.NewBuilder(int(maxNode)+1, directed)
	for n, t := range types {
		if err := b.SetNodeType(n, t); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		if err := b.AddEdge(e.src, e.dst, e.et); err != nil {
			return nil, err
		}
	}
	return b.Finalize(), nil
}

func parseNodeID(field string) (hetgl.NodeID, error) {
	v, err := strconv.ParseInt(field, 10, 32)
	if err != nil || v < 0 {
		return 0, errors.Wrapf(hetgl.ErrInvalidNode, "%q", field)
	}
	return hetgl.NodeID(v), nil
}

func readCSVRows(path string, onRow func(row []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comment = '#'

	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if first {
			first = false
			if _, err := strconv.Atoi(row[0]); err != nil {
				continue // header row
			}
		}
		if err := onRow(row); err != nil {
			return err
		}
	}
}

// WriteOrbitsCSV writes the orbit table: one row per orbit in canonical order.
func WriteOrbitsCSV(res *libhetgl.Results, out io.Writer) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"orbit", "size", "shape", "signature", "count"}); err != nil {
		return err
	}
	for i := range res.Orbits {
		orb := &res.Orbits[i]
		err := w.Write([]string{
			strconv.FormatUint(uint64(orb.ID), 10),
			strconv.Itoa(int(orb.Size)),
			orb.Shape,
			orb.Sig.String(),
			strconv.FormatUint(res.GlobalCount(orb.ID), 10),
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteNodeCountsCSV writes the per-node orbit participation counts, the
// standard heterogeneous-graphlet feature output.
func WriteNodeCountsCSV(res *libhetgl.Results, out io.Writer) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"node", "orbit", "count"}); err != nil {
		return err
	}
	var werr error
	for n := hetgl.NodeID(0); int(n) < res.NumNodes; n++ {
		res.NodeOrbits(n, func(orbit hetgl.OrbitID, count uint64) {
			if werr != nil {
				return
			}
			werr = w.Write([]string{
				strconv.FormatInt(int64(n), 10),
				strconv.FormatUint(uint64(orbit), 10),
				strconv.FormatUint(count, 10),
			})
		})
		if werr != nil {
			return werr
		}
	}
	w.Flush()
	return w.Error()
}
