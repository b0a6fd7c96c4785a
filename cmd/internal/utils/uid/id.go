package uid

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/labstack/gommon/log"
)

var (
	node    *snowflake.Node
	once    sync.Once
	initErr error
)

// Init creates the snowflake node once; later calls return the first result.
func Init(machineID int64) error {
	once.Do(func() {
		node, initErr = snowflake.NewNode(machineID)
		if initErr != nil {
			initErr = fmt.Errorf("failed to initialize snowflake node %d: %w", machineID, initErr)
		}
	})
	return initErr
}

func Generate() int64 {
	if node == nil {
		log.Fatalf("uid package not initialized")
	}
	return node.Generate().Int64()
}

// Parse reads an id from a path parameter. Only positive values are accepted.
func Parse(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
