package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlweave/sqlweave/ast"
	"github.com/sqlweave/sqlweave/format"
)

func TestBuildJSONCTEChainSingleLevel(t *testing.T) {
	root := &EntityNode{
		Name:     "order",
		Table:    &ast.TableName{Parts: []string{"orders"}},
		IDColumn: "id",
		Scalars:  []string{"id", "total"},
		Children: []*EntityNode{
			{
				Name:     "item",
				Table:    &ast.TableName{Parts: []string{"order_items"}},
				IDColumn: "id",
				ParentFK: "order_id",
				Scalars:  []string{"sku", "qty"},
			},
		},
	}

	wc, outer := BuildJSONCTEChain(root)
	require.Len(t, wc.CTEs, 1)
	require.Equal(t, "item_json_1", wc.CTEs[0].Name)
	require.Same(t, wc, outer.With)

	sql := format.String(outer)
	require.Contains(t, sql, "item_json_1")
	require.Contains(t, sql, "jsonb_agg")
	require.Contains(t, sql, "jsonb_build_object")
	require.Contains(t, sql, "coalesce")
}

func TestBuildJSONCTEChainNestedDepthOrdersDeepestFirst(t *testing.T) {
	leaf := &EntityNode{
		Name:     "tag",
		Table:    &ast.TableName{Parts: []string{"tags"}},
		IDColumn: "id",
		ParentFK: "item_id",
		Scalars:  []string{"label"},
	}
	mid := &EntityNode{
		Name:     "item",
		Table:    &ast.TableName{Parts: []string{"order_items"}},
		IDColumn: "id",
		ParentFK: "order_id",
		Scalars:  []string{"sku"},
		Children: []*EntityNode{leaf},
	}
	root := &EntityNode{
		Name:     "order",
		Table:    &ast.TableName{Parts: []string{"orders"}},
		IDColumn: "id",
		Scalars:  []string{"id"},
		Children: []*EntityNode{mid},
	}

	wc, _ := BuildJSONCTEChain(root)
	require.Len(t, wc.CTEs, 2)
	require.Equal(t, "tag_json_1", wc.CTEs[0].Name, "deepest entity's CTE must be emitted first")
	require.Equal(t, "item_json_2", wc.CTEs[1].Name)
}
