package common

import (
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cast"
)

var idnode *snowflake.Node

func init() {
	nodeid := cast.ToInt64(os.Getenv("STOREADMIN_NODE_ID")) % 1024
	var err error
	idnode, err = snowflake.NewNode(nodeid)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a cluster-unique int64 id.
func UUIDint64() int64 {
	return idnode.Generate().Int64()
}

// FileExists tests a path without following through on open errors.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
