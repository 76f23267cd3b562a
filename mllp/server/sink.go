package server

import (
	"fmt"
	"github.com/ValentinKolb/mllp/lib/store"
	"github.com/ValentinKolb/mllp/lib/store/filestore"
	"github.com/ValentinKolb/mllp/lib/store/memstore"
	"github.com/ValentinKolb/mllp/mllp/common"
)

// NewSink creates the sink selected by the configuration
func NewSink(config common.SinkConfig) (store.ISink, error) {
	switch config.Type {
	case common.SinkTypeFile, "":
		sink, err := filestore.NewFileSink(config.DataDir, config.Prefix)
		if err != nil {
			return nil, err
		}
		Logger.Infof("Storing received messages in %s", config.DataDir)
		return sink, nil
	case common.SinkTypeMemory:
		return memstore.NewMemorySink(config.Prefix), nil
	default:
		return nil, fmt.Errorf("invalid sink type: %s. must be one of %s, %s", config.Type, common.SinkTypeFile, common.SinkTypeMemory)
	}
}
