package mcp

import (
	"fmt"
	"strings"
)

// Manage tools multiplex their lifecycle verbs on an "operation" field. The
// discriminator is decoded into a typed constant before dispatch so every
// switch is over a closed set rather than raw strings.

type manageOp string

const (
	opCreate manageOp = "create"
	opUpdate manageOp = "update"
	opDelete manageOp = "delete"
	opRename manageOp = "rename"
	opMerge  manageOp = "merge"
)

// parseManageOp validates the operation discriminator against the verbs a
// tool supports.
func parseManageOp(raw string, allowed ...manageOp) (manageOp, error) {
	op := manageOp(strings.ToLower(strings.TrimSpace(raw)))
	for _, a := range allowed {
		if op == a {
			return op, nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", fmt.Errorf("operation must be one of: %s", strings.Join(names, ", "))
}

type batchOp string

const (
	batchUpdate          batchOp = "update"
	batchMove            batchOp = "move"
	batchTagAdd          batchOp = "tag_add"
	batchTagRemove       batchOp = "tag_remove"
	batchDelete          batchOp = "delete"
	batchDeletePermanent batchOp = "delete_permanent"
)

var batchOps = []batchOp{batchUpdate, batchMove, batchTagAdd, batchTagRemove, batchDelete, batchDeletePermanent}

func parseBatchOp(raw string) (batchOp, error) {
	op := batchOp(strings.ToLower(strings.TrimSpace(raw)))
	for _, a := range batchOps {
		if op == a {
			return op, nil
		}
	}
	names := make([]string, len(batchOps))
	for i, a := range batchOps {
		names[i] = string(a)
	}
	return "", fmt.Errorf("operation must be one of: %s", strings.Join(names, ", "))
}
