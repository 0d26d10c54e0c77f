package ast

// Clone returns a deep, structurally independent copy of node: no pointer
// in the returned tree is shared with node, so a caller can mutate the
// clone freely without touching the input. Transformers that must not
// mutate their input (CTE replace, INSERT->SELECT conversion re-expressing
// VALUES) call this before rewriting.
//
// Clone dispatches by concrete type the same way visitor.Walk/Rewrite do,
// rather than exposing a Clone method on every node type: the traversal
// logic already lives in one place (this file) instead of being smeared
// across ~70 method bodies.
func Clone(node Node) Node {
	if node == nil {
		return nil
	}
	switch n := node.(type) {
	case Statement:
		return CloneStatement(n)
	case Expr:
		return CloneExpr(n)
	case TableExpr:
		return CloneTableExpr(n)
	case SelectExpr:
		return CloneSelectExpr(n)
	case *OrderByExpr:
		return cloneOrderByExpr(n)
	case *Limit:
		return cloneLimit(n)
	case *WithClause:
		return cloneWithClause(n)
	case *CTE:
		return cloneCTE(n)
	default:
		return node
	}
}

// CloneStatement deep-clones a Statement.
func CloneStatement(stmt Statement) Statement {
	if stmt == nil {
		return nil
	}
	switch s := stmt.(type) {
	case *SelectStmt:
		return cloneSelectStmt(s)
	case *InsertStmt:
		return cloneInsertStmt(s)
	case *UpdateStmt:
		return cloneUpdateStmt(s)
	case *DeleteStmt:
		return cloneDeleteStmt(s)
	case *MergeStmt:
		return cloneMergeStmt(s)
	case *SetOp:
		return cloneSetOp(s)
	case *ValuesStmt:
		return cloneValuesStmt(s)
	case *CreateTableStmt:
		return cloneCreateTableStmt(s)
	case *AlterTableStmt:
		return cloneAlterTableStmt(s)
	case *DropTableStmt:
		return cloneDropTableStmt(s)
	case *CreateIndexStmt:
		return cloneCreateIndexStmt(s)
	case *DropIndexStmt:
		return cloneDropIndexStmt(s)
	case *TruncateStmt:
		return cloneTruncateStmt(s)
	case *ExplainStmt:
		return cloneExplainStmt(s)
	case *CreateSchemaStmt:
		c := *s
		return &c
	case *CommentOnStmt:
		c := *s
		return &c
	case *VacuumStmt:
		c := *s
		if s.Table != nil {
			c.Table = cloneTableName(s.Table)
		}
		return &c
	case *CheckpointStmt:
		c := *s
		return &c
	default:
		return stmt
	}
}

// CloneExpr deep-clones an Expr.
func CloneExpr(expr Expr) Expr {
	if expr == nil {
		return nil
	}
	switch e := expr.(type) {
	case *ColName:
		return cloneColName(e)
	case *Literal:
		c := *e
		return &c
	case *StringSpecifierExpr:
		c := *e
		return &c
	case *BinaryExpr:
		return &BinaryExpr{StartPos: e.StartPos, EndPos: e.EndPos, Op: e.Op, Left: CloneExpr(e.Left), Right: CloneExpr(e.Right)}
	case *UnaryExpr:
		return &UnaryExpr{StartPos: e.StartPos, EndPos: e.EndPos, Op: e.Op, Operand: CloneExpr(e.Operand)}
	case *ParenExpr:
		return &ParenExpr{StartPos: e.StartPos, EndPos: e.EndPos, Expr: CloneExpr(e.Expr)}
	case *FuncExpr:
		return cloneFuncExpr(e)
	case *CastExpr:
		return &CastExpr{StartPos: e.StartPos, EndPos: e.EndPos, Expr: CloneExpr(e.Expr), Type: cloneDataType(e.Type)}
	case *CaseExpr:
		return cloneCaseExpr(e)
	case *InExpr:
		return cloneInExpr(e)
	case *BetweenExpr:
		return &BetweenExpr{StartPos: e.StartPos, EndPos: e.EndPos, Expr: CloneExpr(e.Expr), Not: e.Not, Low: CloneExpr(e.Low), High: CloneExpr(e.High)}
	case *LikeExpr:
		return &LikeExpr{StartPos: e.StartPos, EndPos: e.EndPos, Expr: CloneExpr(e.Expr), Pattern: CloneExpr(e.Pattern), Not: e.Not, Escape: CloneExpr(e.Escape), ILike: e.ILike}
	case *IsExpr:
		return &IsExpr{StartPos: e.StartPos, EndPos: e.EndPos, Expr: CloneExpr(e.Expr), Not: e.Not, What: e.What}
	case *Subquery:
		return &Subquery{StartPos: e.StartPos, EndPos: e.EndPos, Select: cloneSelectStmt(e.Select)}
	case *ExistsExpr:
		var sub *Subquery
		if e.Subquery != nil {
			sub = &Subquery{StartPos: e.Subquery.StartPos, EndPos: e.Subquery.EndPos, Select: cloneSelectStmt(e.Subquery.Select)}
		}
		return &ExistsExpr{StartPos: e.StartPos, EndPos: e.EndPos, Not: e.Not, Subquery: sub}
	case *Param:
		c := *e
		return &c
	case *ArrayExpr:
		return &ArrayExpr{StartPos: e.StartPos, EndPos: e.EndPos, Elements: cloneExprSlice(e.Elements)}
	case *SubscriptExpr:
		return &SubscriptExpr{StartPos: e.StartPos, EndPos: e.EndPos, Expr: CloneExpr(e.Expr), Index: CloneExpr(e.Index)}
	case *IntervalExpr:
		return &IntervalExpr{StartPos: e.StartPos, EndPos: e.EndPos, Value: CloneExpr(e.Value), Unit: e.Unit}
	case *ExtractExpr:
		return &ExtractExpr{StartPos: e.StartPos, EndPos: e.EndPos, Field: e.Field, Source: CloneExpr(e.Source)}
	case *TrimExpr:
		return &TrimExpr{StartPos: e.StartPos, EndPos: e.EndPos, TrimType: e.TrimType, TrimChar: CloneExpr(e.TrimChar), Expr: CloneExpr(e.Expr)}
	case *SubstringExpr:
		return &SubstringExpr{StartPos: e.StartPos, EndPos: e.EndPos, Expr: CloneExpr(e.Expr), From: CloneExpr(e.From), For: CloneExpr(e.For)}
	case *PositionExpr:
		return &PositionExpr{StartPos: e.StartPos, EndPos: e.EndPos, Needle: CloneExpr(e.Needle), Haystack: CloneExpr(e.Haystack)}
	case *CollateExpr:
		return &CollateExpr{StartPos: e.StartPos, EndPos: e.EndPos, Expr: CloneExpr(e.Expr), Collation: e.Collation}
	case *StarExpr:
		c := *e
		return &c
	default:
		return expr
	}
}

// CloneTableExpr deep-clones a TableExpr.
func CloneTableExpr(te TableExpr) TableExpr {
	if te == nil {
		return nil
	}
	switch t := te.(type) {
	case *TableName:
		return cloneTableName(t)
	case *AliasedTableExpr:
		return &AliasedTableExpr{StartPos: t.StartPos, EndPos: t.EndPos, Expr: CloneTableExpr(t.Expr), Alias: t.Alias, Columns: append([]string(nil), t.Columns...), Hints: cloneIndexHints(t.Hints)}
	case *JoinExpr:
		return &JoinExpr{
			StartPos: t.StartPos, EndPos: t.EndPos, Type: t.Type,
			Left: CloneTableExpr(t.Left), Right: CloneTableExpr(t.Right),
			On: CloneExpr(t.On), Using: append([]string(nil), t.Using...),
			Natural: t.Natural, Lateral: t.Lateral,
		}
	case *ParenTableExpr:
		return &ParenTableExpr{StartPos: t.StartPos, EndPos: t.EndPos, Expr: CloneTableExpr(t.Expr)}
	case *Subquery:
		return &Subquery{StartPos: t.StartPos, EndPos: t.EndPos, Select: cloneSelectStmt(t.Select)}
	case *TableList:
		tables := make([]TableExpr, len(t.Tables))
		for i, sub := range t.Tables {
			tables[i] = CloneTableExpr(sub)
		}
		return &TableList{StartPos: t.StartPos, EndPos: t.EndPos, Tables: tables}
	case *ValuesStmt:
		return cloneValuesStmt(t)
	case *SetOp:
		return cloneSetOp(t)
	default:
		return te
	}
}

// CloneSelectExpr deep-clones a SelectExpr (an item of a SELECT/RETURNING list).
func CloneSelectExpr(se SelectExpr) SelectExpr {
	if se == nil {
		return nil
	}
	switch s := se.(type) {
	case *AliasedExpr:
		return &AliasedExpr{StartPos: s.StartPos, EndPos: s.EndPos, Expr: CloneExpr(s.Expr), Alias: s.Alias}
	case *StarExpr:
		c := *s
		return &c
	default:
		return se
	}
}

func cloneExprSlice(in []Expr) []Expr {
	if in == nil {
		return nil
	}
	out := make([]Expr, len(in))
	for i, e := range in {
		out[i] = CloneExpr(e)
	}
	return out
}

func cloneSelectExprSlice(in []SelectExpr) []SelectExpr {
	if in == nil {
		return nil
	}
	out := make([]SelectExpr, len(in))
	for i, e := range in {
		out[i] = CloneSelectExpr(e)
	}
	return out
}

func cloneRowsSlice(in [][]Expr) [][]Expr {
	if in == nil {
		return nil
	}
	out := make([][]Expr, len(in))
	for i, row := range in {
		out[i] = cloneExprSlice(row)
	}
	return out
}

func cloneOrderBySlice(in []*OrderByExpr) []*OrderByExpr {
	if in == nil {
		return nil
	}
	out := make([]*OrderByExpr, len(in))
	for i, ob := range in {
		out[i] = cloneOrderByExpr(ob)
	}
	return out
}

func cloneOrderByExpr(o *OrderByExpr) *OrderByExpr {
	if o == nil {
		return nil
	}
	var nullsFirst *bool
	if o.NullsFirst != nil {
		v := *o.NullsFirst
		nullsFirst = &v
	}
	return &OrderByExpr{StartPos: o.StartPos, EndPos: o.EndPos, Expr: CloneExpr(o.Expr), Desc: o.Desc, NullsFirst: nullsFirst}
}

func cloneLimit(l *Limit) *Limit {
	if l == nil {
		return nil
	}
	return &Limit{StartPos: l.StartPos, EndPos: l.EndPos, Count: CloneExpr(l.Count), Offset: CloneExpr(l.Offset)}
}

func cloneColName(c *ColName) *ColName {
	return &ColName{StartPos: c.StartPos, EndPos: c.EndPos, Parts: append([]string(nil), c.Parts...)}
}

func cloneColNameSlice(in []*ColName) []*ColName {
	if in == nil {
		return nil
	}
	out := make([]*ColName, len(in))
	for i, c := range in {
		out[i] = cloneColName(c)
	}
	return out
}

func cloneTableName(t *TableName) *TableName {
	if t == nil {
		return nil
	}
	return &TableName{StartPos: t.StartPos, EndPos: t.EndPos, Parts: append([]string(nil), t.Parts...)}
}

func cloneIndexHints(in []*IndexHint) []*IndexHint {
	if in == nil {
		return nil
	}
	out := make([]*IndexHint, len(in))
	for i, h := range in {
		out[i] = &IndexHint{Type: h.Type, For: h.For, Indexes: append([]string(nil), h.Indexes...)}
	}
	return out
}

func cloneWindowSpec(w *WindowSpec) *WindowSpec {
	if w == nil {
		return nil
	}
	return &WindowSpec{
		StartPos: w.StartPos, EndPos: w.EndPos, Name: w.Name,
		PartitionBy: cloneExprSlice(w.PartitionBy),
		OrderBy:     cloneOrderBySlice(w.OrderBy),
		Frame:       cloneWindowFrame(w.Frame),
	}
}

func cloneWindowFrame(f *WindowFrame) *WindowFrame {
	if f == nil {
		return nil
	}
	return &WindowFrame{Type: f.Type, Start: cloneFrameBound(f.Start), End: cloneFrameBound(f.End)}
}

func cloneFrameBound(b *FrameBound) *FrameBound {
	if b == nil {
		return nil
	}
	return &FrameBound{Type: b.Type, Offset: CloneExpr(b.Offset)}
}

func cloneWindowDefs(in []*WindowDef) []*WindowDef {
	if in == nil {
		return nil
	}
	out := make([]*WindowDef, len(in))
	for i, w := range in {
		out[i] = &WindowDef{Name: w.Name, Spec: cloneWindowSpec(w.Spec)}
	}
	return out
}

func cloneFuncExpr(f *FuncExpr) *FuncExpr {
	return &FuncExpr{
		StartPos: f.StartPos, EndPos: f.EndPos, Name: f.Name, Distinct: f.Distinct,
		Args: cloneExprSlice(f.Args), OrderBy: cloneOrderBySlice(f.OrderBy),
		Filter: CloneExpr(f.Filter), Over: cloneWindowSpec(f.Over),
	}
}

func cloneCaseExpr(c *CaseExpr) *CaseExpr {
	whens := make([]*When, len(c.Whens))
	for i, w := range c.Whens {
		whens[i] = &When{Cond: CloneExpr(w.Cond), Result: CloneExpr(w.Result)}
	}
	return &CaseExpr{StartPos: c.StartPos, EndPos: c.EndPos, Operand: CloneExpr(c.Operand), Whens: whens, Else: CloneExpr(c.Else)}
}

func cloneInExpr(i *InExpr) *InExpr {
	return &InExpr{
		StartPos: i.StartPos, EndPos: i.EndPos, Expr: CloneExpr(i.Expr), Not: i.Not,
		Values: cloneExprSlice(i.Values), Select: cloneSelectStmt(i.Select),
	}
}

func cloneDataType(d *DataType) *DataType {
	if d == nil {
		return nil
	}
	c := *d
	if d.Length != nil {
		v := *d.Length
		c.Length = &v
	}
	if d.Precision != nil {
		v := *d.Precision
		c.Precision = &v
	}
	if d.Scale != nil {
		v := *d.Scale
		c.Scale = &v
	}
	return &c
}

func cloneUpdateExprSlice(in []*UpdateExpr) []*UpdateExpr {
	if in == nil {
		return nil
	}
	out := make([]*UpdateExpr, len(in))
	for i, u := range in {
		out[i] = &UpdateExpr{Column: cloneColName(u.Column), Expr: CloneExpr(u.Expr)}
	}
	return out
}

func cloneOnConflict(o *OnConflict) *OnConflict {
	if o == nil {
		return nil
	}
	return &OnConflict{
		Columns: append([]string(nil), o.Columns...), Where: CloneExpr(o.Where),
		DoNothing: o.DoNothing, Updates: cloneUpdateExprSlice(o.Updates),
	}
}

func cloneSelectInto(si *SelectInto) *SelectInto {
	if si == nil {
		return nil
	}
	c := *si
	c.Vars = append([]string(nil), si.Vars...)
	return &c
}

func cloneWithClause(w *WithClause) *WithClause {
	if w == nil {
		return nil
	}
	ctes := make([]*CTE, len(w.CTEs))
	for i, c := range w.CTEs {
		ctes[i] = cloneCTE(c)
	}
	return &WithClause{Recursive: w.Recursive, CTEs: ctes}
}

func cloneCTE(c *CTE) *CTE {
	if c == nil {
		return nil
	}
	return &CTE{
		Name: c.Name, Columns: append([]string(nil), c.Columns...),
		Query: CloneStatement(c.Query), Materialized: c.Materialized,
	}
}

func cloneSelectStmt(s *SelectStmt) *SelectStmt {
	if s == nil {
		return nil
	}
	return &SelectStmt{
		StartPos: s.StartPos, EndPos: s.EndPos,
		With:       cloneWithClause(s.With),
		Distinct:   s.Distinct,
		Columns:    cloneSelectExprSlice(s.Columns),
		From:       CloneTableExpr(s.From),
		Where:      CloneExpr(s.Where),
		GroupBy:    cloneExprSlice(s.GroupBy),
		Having:     CloneExpr(s.Having),
		OrderBy:    cloneOrderBySlice(s.OrderBy),
		Limit:      cloneLimit(s.Limit),
		Lock:       s.Lock,
		Into:       cloneSelectInto(s.Into),
		WindowDefs: cloneWindowDefs(s.WindowDefs),
	}
}

func cloneInsertStmt(s *InsertStmt) *InsertStmt {
	return &InsertStmt{
		StartPos: s.StartPos, EndPos: s.EndPos,
		With: cloneWithClause(s.With), Replace: s.Replace, Ignore: s.Ignore,
		Table: cloneTableName(s.Table), Columns: cloneColNameSlice(s.Columns),
		Values: cloneRowsSlice(s.Values), Select: cloneSelectStmt(s.Select),
		OnDuplicateUpdate: cloneUpdateExprSlice(s.OnDuplicateUpdate),
		OnConflict:        cloneOnConflict(s.OnConflict),
		Returning:         cloneSelectExprSlice(s.Returning),
	}
}

func cloneUpdateStmt(s *UpdateStmt) *UpdateStmt {
	return &UpdateStmt{
		StartPos: s.StartPos, EndPos: s.EndPos, With: cloneWithClause(s.With),
		Table: CloneTableExpr(s.Table), Set: cloneUpdateExprSlice(s.Set),
		From: CloneTableExpr(s.From), Where: CloneExpr(s.Where),
		OrderBy: cloneOrderBySlice(s.OrderBy), Limit: cloneLimit(s.Limit),
		Returning: cloneSelectExprSlice(s.Returning),
	}
}

func cloneDeleteStmt(s *DeleteStmt) *DeleteStmt {
	return &DeleteStmt{
		StartPos: s.StartPos, EndPos: s.EndPos, With: cloneWithClause(s.With),
		Table: CloneTableExpr(s.Table), Using: CloneTableExpr(s.Using),
		Where: CloneExpr(s.Where), OrderBy: cloneOrderBySlice(s.OrderBy),
		Limit: cloneLimit(s.Limit), Returning: cloneSelectExprSlice(s.Returning),
	}
}

func cloneSetOp(s *SetOp) *SetOp {
	return &SetOp{
		StartPos: s.StartPos, EndPos: s.EndPos, Type: s.Type, All: s.All,
		Left: CloneStatement(s.Left), Right: CloneStatement(s.Right),
		OrderBy: cloneOrderBySlice(s.OrderBy), Limit: cloneLimit(s.Limit),
	}
}

func cloneValuesStmt(v *ValuesStmt) *ValuesStmt {
	return &ValuesStmt{StartPos: v.StartPos, EndPos: v.EndPos, Rows: cloneRowsSlice(v.Rows)}
}

func cloneMergeStmt(s *MergeStmt) *MergeStmt {
	whens := make([]*WhenClause, len(s.Whens))
	for i, w := range s.Whens {
		whens[i] = &WhenClause{
			StartPos: w.StartPos, EndPos: w.EndPos, Matched: w.Matched,
			BySource: w.BySource, ByTarget: w.ByTarget, Condition: CloneExpr(w.Condition),
			Action: cloneMergeAction(w.Action),
		}
	}
	return &MergeStmt{
		StartPos: s.StartPos, EndPos: s.EndPos, With: cloneWithClause(s.With),
		Target: CloneTableExpr(s.Target), Source: CloneTableExpr(s.Source),
		On: CloneExpr(s.On), Whens: whens,
	}
}

func cloneMergeAction(a MergeAction) MergeAction {
	switch m := a.(type) {
	case *MergeUpdate:
		return &MergeUpdate{StartPos: m.StartPos, EndPos: m.EndPos, Set: cloneUpdateExprSlice(m.Set)}
	case *MergeDelete:
		c := *m
		return &c
	case *MergeInsert:
		return &MergeInsert{StartPos: m.StartPos, EndPos: m.EndPos, Columns: cloneColNameSlice(m.Columns), Values: cloneExprSlice(m.Values)}
	case *MergeDoNothing:
		c := *m
		return &c
	default:
		return a
	}
}

func cloneColumnDefSlice(in []*ColumnDef) []*ColumnDef {
	if in == nil {
		return nil
	}
	out := make([]*ColumnDef, len(in))
	for i, c := range in {
		out[i] = &ColumnDef{Name: c.Name, Type: cloneDataType(c.Type), Constraints: cloneColumnConstraintSlice(c.Constraints)}
	}
	return out
}

func cloneColumnConstraintSlice(in []*ColumnConstraint) []*ColumnConstraint {
	if in == nil {
		return nil
	}
	out := make([]*ColumnConstraint, len(in))
	for i, c := range in {
		cc := &ColumnConstraint{
			Name: c.Name, Type: c.Type, NotNull: c.NotNull,
			Default: CloneExpr(c.Default), Check: CloneExpr(c.Check),
			References: cloneForeignKeyRef(c.References),
		}
		if c.Generated != nil {
			cc.Generated = &GeneratedColumn{Expr: CloneExpr(c.Generated.Expr), Stored: c.Generated.Stored}
		}
		out[i] = cc
	}
	return out
}

func cloneForeignKeyRef(f *ForeignKeyRef) *ForeignKeyRef {
	if f == nil {
		return nil
	}
	return &ForeignKeyRef{
		Table: cloneTableName(f.Table), Columns: append([]string(nil), f.Columns...),
		OnDelete: f.OnDelete, OnUpdate: f.OnUpdate,
	}
}

func cloneTableConstraint(c *TableConstraint) *TableConstraint {
	if c == nil {
		return nil
	}
	return &TableConstraint{
		Name: c.Name, Type: c.Type, Columns: append([]string(nil), c.Columns...),
		References: cloneForeignKeyRef(c.References), Check: CloneExpr(c.Check),
	}
}

func cloneTableConstraintSlice(in []*TableConstraint) []*TableConstraint {
	if in == nil {
		return nil
	}
	out := make([]*TableConstraint, len(in))
	for i, c := range in {
		out[i] = cloneTableConstraint(c)
	}
	return out
}

func cloneTableOptionSlice(in []*TableOption) []*TableOption {
	if in == nil {
		return nil
	}
	out := make([]*TableOption, len(in))
	for i, o := range in {
		c := *o
		out[i] = &c
	}
	return out
}

func cloneCreateTableStmt(s *CreateTableStmt) *CreateTableStmt {
	return &CreateTableStmt{
		StartPos: s.StartPos, EndPos: s.EndPos, IfNotExists: s.IfNotExists, Temporary: s.Temporary,
		Table: cloneTableName(s.Table), Columns: cloneColumnDefSlice(s.Columns),
		Constraints: cloneTableConstraintSlice(s.Constraints), Options: cloneTableOptionSlice(s.Options),
		As: cloneSelectStmt(s.As),
	}
}

func cloneAlterTableAction(a AlterTableAction) AlterTableAction {
	switch act := a.(type) {
	case *AddColumn:
		return &AddColumn{Column: &ColumnDef{Name: act.Column.Name, Type: cloneDataType(act.Column.Type), Constraints: cloneColumnConstraintSlice(act.Column.Constraints)}}
	case *DropColumn:
		c := *act
		return &c
	case *ModifyColumn:
		mc := &ModifyColumn{
			Name: act.Name, SetDefault: CloneExpr(act.SetDefault), DropDefault: act.DropDefault,
			SetNotNull: act.SetNotNull, DropNotNull: act.DropNotNull,
		}
		if act.NewDef != nil {
			mc.NewDef = &ColumnDef{Name: act.NewDef.Name, Type: cloneDataType(act.NewDef.Type), Constraints: cloneColumnConstraintSlice(act.NewDef.Constraints)}
		}
		return mc
	case *RenameColumn:
		c := *act
		return &c
	case *AddConstraint:
		return &AddConstraint{Constraint: cloneTableConstraint(act.Constraint)}
	case *DropConstraint:
		c := *act
		return &c
	case *RenameTable:
		return &RenameTable{NewName: cloneTableName(act.NewName)}
	default:
		return a
	}
}

func cloneAlterTableStmt(s *AlterTableStmt) *AlterTableStmt {
	actions := make([]AlterTableAction, len(s.Actions))
	for i, a := range s.Actions {
		actions[i] = cloneAlterTableAction(a)
	}
	return &AlterTableStmt{StartPos: s.StartPos, EndPos: s.EndPos, Table: cloneTableName(s.Table), Actions: actions}
}

func cloneDropTableStmt(s *DropTableStmt) *DropTableStmt {
	tables := make([]*TableName, len(s.Tables))
	for i, t := range s.Tables {
		tables[i] = cloneTableName(t)
	}
	return &DropTableStmt{StartPos: s.StartPos, EndPos: s.EndPos, IfExists: s.IfExists, Tables: tables, Cascade: s.Cascade}
}

func cloneCreateIndexStmt(s *CreateIndexStmt) *CreateIndexStmt {
	cols := make([]*IndexColumn, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = &IndexColumn{Column: c.Column, Expr: CloneExpr(c.Expr), Desc: c.Desc, Nulls: c.Nulls}
	}
	return &CreateIndexStmt{
		StartPos: s.StartPos, EndPos: s.EndPos, IfNotExists: s.IfNotExists, Unique: s.Unique,
		Concurrent: s.Concurrent, Name: s.Name, Table: cloneTableName(s.Table),
		Columns: cols, Using: s.Using, Where: CloneExpr(s.Where),
	}
}

func cloneDropIndexStmt(s *DropIndexStmt) *DropIndexStmt {
	return &DropIndexStmt{
		StartPos: s.StartPos, EndPos: s.EndPos, IfExists: s.IfExists, Concurrent: s.Concurrent,
		Name: s.Name, Table: cloneTableName(s.Table), Cascade: s.Cascade,
	}
}

func cloneTruncateStmt(s *TruncateStmt) *TruncateStmt {
	tables := make([]*TableName, len(s.Tables))
	for i, t := range s.Tables {
		tables[i] = cloneTableName(t)
	}
	return &TruncateStmt{StartPos: s.StartPos, EndPos: s.EndPos, Tables: tables, Cascade: s.Cascade}
}

func cloneExplainStmt(s *ExplainStmt) *ExplainStmt {
	return &ExplainStmt{
		StartPos: s.StartPos, EndPos: s.EndPos, Analyze: s.Analyze, Verbose: s.Verbose,
		Format: s.Format, Stmt: CloneStatement(s.Stmt),
	}
}
