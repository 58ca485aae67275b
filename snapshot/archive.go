package snapshot

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/gdbscan/cluster"
	"github.com/hupe1980/gdbscan/codec"
	"github.com/hupe1980/gdbscan/core"
	"github.com/hupe1980/gdbscan/graph"
)

// archiveHeader is the self-describing prefix of every archive: codec and
// compression are recorded by name so Decode can select the right readers
// without the caller having to know how a given archive was written.
type archiveHeader struct {
	Codec       string `json:"codec"`
	Compression string `json:"compression"`
}

// wireRecord is the JSON/go-json shape of cluster.Record.
type wireRecord struct {
	Index      uint32 `json:"index"`
	ClusterID  int32  `json:"cluster_id"`
	Membership uint32 `json:"membership"`
}

type wirePayload struct {
	Records     []wireRecord `json:"records"`
	NumClusters int          `json:"num_clusters"`
}

// Encode serializes a clustering result into a self-describing archive:
// header length, header, then the compressed, codec-encoded payload.
func Encode(c codec.Codec, alg Compression, result *cluster.Result) ([]byte, error) {
	payload := wirePayload{
		Records:     make([]wireRecord, len(result.Records)),
		NumClusters: result.NumClusters,
	}
	for i, r := range result.Records {
		payload.Records[i] = wireRecord{
			Index:      uint32(r.Index),
			ClusterID:  int32(r.ClusterID),
			Membership: uint32(r.Membership),
		}
	}

	raw, err := c.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode payload: %w", err)
	}

	body, err := compress(alg, raw)
	if err != nil {
		return nil, fmt.Errorf("snapshot: compress payload: %w", err)
	}

	header := archiveHeader{Codec: c.Name(), Compression: alg.String()}
	headerBytes, err := (codec.JSON{}).Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode header: %w", err)
	}

	out := make([]byte, 0, 4+len(headerBytes)+len(body))
	out = append(out, byte(len(headerBytes)>>24), byte(len(headerBytes)>>16), byte(len(headerBytes)>>8), byte(len(headerBytes)))
	out = append(out, headerBytes...)
	out = append(out, body...)
	return out, nil
}

// Decode reverses Encode, selecting the codec and compression recorded in
// the archive's own header.
func Decode(blob []byte) (*cluster.Result, error) {
	if len(blob) < 4 {
		return nil, fmt.Errorf("snapshot: truncated archive header length")
	}
	headerLen := int(blob[0])<<24 | int(blob[1])<<16 | int(blob[2])<<8 | int(blob[3])
	if len(blob) < 4+headerLen {
		return nil, fmt.Errorf("snapshot: truncated archive header")
	}

	var header archiveHeader
	if err := (codec.JSON{}).Unmarshal(blob[4:4+headerLen], &header); err != nil {
		return nil, fmt.Errorf("snapshot: decode header: %w", err)
	}

	c, ok := codec.ByName(header.Codec)
	if !ok {
		return nil, fmt.Errorf("snapshot: unknown codec %q", header.Codec)
	}
	alg := compressionByName(header.Compression)

	raw, err := decompress(alg, blob[4+headerLen:])
	if err != nil {
		return nil, fmt.Errorf("snapshot: decompress payload: %w", err)
	}

	var payload wirePayload
	if err := c.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("snapshot: decode payload: %w", err)
	}

	return rebuild(payload), nil
}

func compressionByName(name string) Compression {
	switch name {
	case "gzip":
		return Gzip
	case "lz4":
		return LZ4
	default:
		return NoCompression
	}
}

// rebuild reconstructs a cluster.Result's roaring-bitmap partitions from
// the flat record list, mirroring the bookkeeping cluster.buildResult does
// right after BFS expansion.
func rebuild(payload wirePayload) *cluster.Result {
	res := &cluster.Result{
		Records:      make([]cluster.Record, len(payload.Records)),
		Clusters:     make(map[core.ClusterID]*roaring.Bitmap),
		CorePoints:   roaring.New(),
		BorderPoints: roaring.New(),
		NoisePoints:  roaring.New(),
		NumClusters:  payload.NumClusters,
	}

	for i, wr := range payload.Records {
		rec := cluster.Record{
			Index:      core.NodeID(wr.Index),
			ClusterID:  core.ClusterID(wr.ClusterID),
			Membership: graph.Membership(wr.Membership),
		}
		res.Records[i] = rec

		switch rec.Membership {
		case graph.Core:
			res.CorePoints.Add(wr.Index)
		case graph.Border:
			res.BorderPoints.Add(wr.Index)
		default:
			res.NoisePoints.Add(wr.Index)
		}

		if rec.Membership != graph.Noise {
			bm, ok := res.Clusters[rec.ClusterID]
			if !ok {
				bm = roaring.New()
				res.Clusters[rec.ClusterID] = bm
			}
			bm.Add(wr.Index)
		}
	}

	return res
}
