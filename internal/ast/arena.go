package ast

// Arena is a growable slab allocator for one concrete node type. New never
// shrinks or frees individually; every element returned by New remains at a
// stable address for the arena's lifetime because blocks, once allocated,
// are never reallocated — only a fresh block is appended when the current
// one is full. This is the "bump arena, no individual deallocation" model
// spec.md §3/§9 calls for, minus the single-owner-drops-everything step
// (Go's GC plays that role once the Context is unreachable).
type Arena[T any] struct {
	blockSize int
	blocks    [][]T
}

const defaultBlockSize = 128

// NewArena creates an arena that allocates in blocks of blockSize elements
// (defaulting to 128 when blockSize <= 0).
func NewArena[T any](blockSize int) *Arena[T] {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	return &Arena[T]{blockSize: blockSize}
}

// New returns a pointer to a fresh, zero-valued T living in the arena.
func (a *Arena[T]) New() *T {
	if len(a.blocks) == 0 {
		a.blocks = append(a.blocks, make([]T, 0, a.blockSize))
	}
	last := len(a.blocks) - 1
	if len(a.blocks[last]) == cap(a.blocks[last]) {
		a.blocks = append(a.blocks, make([]T, 0, a.blockSize))
		last++
	}
	a.blocks[last] = append(a.blocks[last], *new(T))
	return &a.blocks[last][len(a.blocks[last])-1]
}

// Len returns the number of elements allocated so far, for diagnostics.
func (a *Arena[T]) Len() int {
	n := 0
	for _, b := range a.blocks {
		n += len(b)
	}
	return n
}

// Context owns every arena for every concrete node type produced while
// parsing one compilation unit. One Context
// backs one Module; the driver discards it (and everything it allocated)
// once a compilation unit finishes.
type Context struct {
	modules      *Arena[Module]
	stmtLists    *Arena[StmtList]
	varDecls     *Arena[VarDecl]
	funcDecls    *Arena[FuncDecl]
	funcParams   *Arena[FuncParamDecl]
	udtDecls     *Arena[UdtDecl]
	typeAliases  *Arena[TypeAlias]
	exprStmts    *Arena[ExprStmt]
	returnStmts  *Arena[ReturnStmt]
	ifStmts      *Arena[IfStmt]
	forStmts     *Arena[ForStmt]
	doLoopStmts  *Arena[DoLoopStmt]
	continuations *Arena[ContinuationStmt]
	imports      *Arena[Import]
	externs      *Arena[Extern]
	typeExprs    *Arena[TypeExpr]
	literals     *Arena[LiteralExpr]
	idents       *Arena[IdentExpr]
	calls        *Arena[CallExpr]
	members      *Arena[MemberExpr]
	assigns      *Arena[AssignExpr]
	unaries      *Arena[UnaryExpr]
	binaries     *Arena[BinaryExpr]
	casts        *Arena[CastExpr]
	derefs       *Arena[DereferenceExpr]
	addrOfs      *Arena[AddressOfExpr]
	ifExprs      *Arena[IfExpr]
	sizeofs      *Arena[SizeofExpr]
}

// NewContext creates an empty arena set for one compilation unit.
func NewContext() *Context {
	return &Context{
		modules:       NewArena[Module](8),
		stmtLists:     NewArena[StmtList](32),
		varDecls:      NewArena[VarDecl](64),
		funcDecls:     NewArena[FuncDecl](32),
		funcParams:    NewArena[FuncParamDecl](64),
		udtDecls:      NewArena[UdtDecl](16),
		typeAliases:   NewArena[TypeAlias](16),
		exprStmts:     NewArena[ExprStmt](64),
		returnStmts:   NewArena[ReturnStmt](32),
		ifStmts:       NewArena[IfStmt](32),
		forStmts:      NewArena[ForStmt](16),
		doLoopStmts:   NewArena[DoLoopStmt](16),
		continuations: NewArena[ContinuationStmt](16),
		imports:       NewArena[Import](8),
		externs:       NewArena[Extern](8),
		typeExprs:     NewArena[TypeExpr](64),
		literals:      NewArena[LiteralExpr](128),
		idents:        NewArena[IdentExpr](128),
		calls:         NewArena[CallExpr](64),
		members:       NewArena[MemberExpr](32),
		assigns:       NewArena[AssignExpr](32),
		unaries:       NewArena[UnaryExpr](32),
		binaries:      NewArena[BinaryExpr](128),
		casts:         NewArena[CastExpr](32),
		derefs:        NewArena[DereferenceExpr](16),
		addrOfs:       NewArena[AddressOfExpr](16),
		ifExprs:       NewArena[IfExpr](8),
		sizeofs:       NewArena[SizeofExpr](8),
	}
}
