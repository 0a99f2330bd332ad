package navigator

import (
	"context"
	"english_admin/internal/api"
	"english_admin/internal/model"
	"english_admin/internal/util"
	"english_admin/pkg/logger"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fetcher 拉取某个父节点下的一类子集合
type Fetcher func(ctx context.Context, parentID string) ([]model.Entity, error)

// FromEndpoint 把带类型的接口适配成 Fetcher
func FromEndpoint[T model.Entity](ep api.Endpoint[T]) Fetcher {
	return func(ctx context.Context, parentID string) ([]model.Entity, error) {
		items, err := ep.List(ctx, parentID)
		if err != nil {
			return nil, err
		}
		out := make([]model.Entity, len(items))
		for i, it := range items {
			out[i] = it
		}
		return out, nil
	}
}

type Child struct {
	Name  string
	Fetch Fetcher
}

// Level 下钻的一层。From 为上一层中存放本层节点的子集合名，根层为空
type Level struct {
	Name     string
	From     string
	Children []Child
}

// Tree 一条下钻路径，例如 考试 -> 分组 -> 题目
type Tree struct {
	Name   string
	Levels []Level
}

type childState struct {
	items   []model.Entity
	loading bool
	notice  string
}

type frame struct {
	depth    int
	level    *Level
	id       string
	node     model.Entity
	epoch    uint64
	children map[string]*childState
}

// Navigator 以选择帧栈表示当前下钻路径，关闭某层即截断该层及以下全部状态
type Navigator struct {
	mu     sync.Mutex
	tree   *Tree
	frames []*frame
	epoch  uint64
}

func New(tree *Tree) *Navigator {
	return &Navigator{tree: tree}
}

func (n *Navigator) Tree() *Tree { return n.tree }

// Open 选中 depth 层的节点：丢弃 depth 及更深的帧，压入新帧并拉取子集合
func (n *Navigator) Open(ctx context.Context, depth int, id string) error {
	n.mu.Lock()
	if depth < 0 || depth >= len(n.tree.Levels) {
		n.mu.Unlock()
		return fmt.Errorf("%s has no level %d: %w", n.tree.Name, depth, util.ErrUnknownResource)
	}
	if depth > len(n.frames) {
		n.mu.Unlock()
		return fmt.Errorf("open %s level %d: %w", n.tree.Name, depth, util.ErrParentNotSelected)
	}

	level := &n.tree.Levels[depth]
	var node model.Entity
	if depth > 0 {
		parent := n.frames[depth-1]
		found, ok := parent.find(level.From, id)
		if !ok {
			n.mu.Unlock()
			return fmt.Errorf("%s %s is not under the selected %s: %w", level.Name, id, parent.level.Name, util.ErrParentNotSelected)
		}
		node = found
	}

	n.truncate(depth)
	n.epoch++
	f := &frame{depth: depth, level: level, id: id, node: node, epoch: n.epoch, children: make(map[string]*childState)}
	for _, ch := range level.Children {
		f.children[ch.Name] = &childState{items: []model.Entity{}, loading: true}
	}
	n.frames = append(n.frames, f)
	n.mu.Unlock()

	return n.load(ctx, f)
}

// Close 原子地清除 depth 及更深的所有帧
func (n *Navigator) Close(depth int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if depth < 0 {
		depth = 0
	}
	n.truncate(depth)
}

// Reset 清空整棵树
func (n *Navigator) Reset() {
	n.Close(0)
}

// Reload 子集合变更后重新拉取 depth 层的全部子集合
func (n *Navigator) Reload(ctx context.Context, depth int) error {
	n.mu.Lock()
	if depth < 0 || depth >= len(n.frames) {
		n.mu.Unlock()
		return fmt.Errorf("reload %s level %d: %w", n.tree.Name, depth, util.ErrParentNotSelected)
	}
	f := n.frames[depth]
	for _, cs := range f.children {
		cs.loading = true
	}
	n.mu.Unlock()
	return n.load(ctx, f)
}

// Selected depth 层当前选中的 ID
func (n *Navigator) Selected(depth int) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if depth < 0 || depth >= len(n.frames) {
		return "", false
	}
	return n.frames[depth].id, true
}

// Depth 当前打开的帧数
func (n *Navigator) Depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.frames)
}

func (n *Navigator) Children(depth int, name string) ([]model.Entity, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if depth < 0 || depth >= len(n.frames) {
		return nil, util.ErrParentNotSelected
	}
	cs, ok := n.frames[depth].children[name]
	if !ok {
		return nil, fmt.Errorf("%s has no child collection %q: %w", n.frames[depth].level.Name, name, util.ErrUnknownResource)
	}
	return append([]model.Entity{}, cs.items...), nil
}

type ChildView struct {
	Items   []model.Entity `json:"items"`
	Total   int            `json:"total"`
	Loading bool           `json:"loading"`
	Notice  string         `json:"notice,omitempty"`
}

type FrameView struct {
	Depth    int                  `json:"depth"`
	Level    string               `json:"level"`
	ID       string               `json:"id"`
	Node     model.Entity         `json:"node,omitempty"`
	Children map[string]ChildView `json:"children"`
}

// Frames 当前帧栈快照，由浅到深
func (n *Navigator) Frames() []FrameView {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]FrameView, 0, len(n.frames))
	for _, f := range n.frames {
		fv := FrameView{Depth: f.depth, Level: f.level.Name, ID: f.id, Node: f.node, Children: make(map[string]ChildView, len(f.children))}
		for name, cs := range f.children {
			fv.Children[name] = ChildView{
				Items:   append([]model.Entity{}, cs.items...),
				Total:   len(cs.items),
				Loading: cs.loading,
				Notice:  cs.notice,
			}
		}
		out = append(out, fv)
	}
	return out
}

// truncate 调用方需持有 n.mu
func (n *Navigator) truncate(depth int) {
	if depth < len(n.frames) {
		for i := depth; i < len(n.frames); i++ {
			n.frames[i] = nil
		}
		n.frames = n.frames[:depth]
	}
}

// alive 帧仍在栈上且未被重新打开，否则结果作废；调用方需持有 n.mu
func (n *Navigator) alive(f *frame) bool {
	return f.depth < len(n.frames) && n.frames[f.depth] == f && n.frames[f.depth].epoch == f.epoch
}

func (n *Navigator) load(ctx context.Context, f *frame) error {
	var g errgroup.Group
	var stale bool
	var firstErr error
	var errMu sync.Mutex

	for _, ch := range f.level.Children {
		ch := ch
		g.Go(func() error {
			items, err := ch.Fetch(ctx, f.id)

			n.mu.Lock()
			defer n.mu.Unlock()
			if !n.alive(f) {
				stale = true
				return nil
			}
			cs := f.children[ch.Name]
			cs.loading = false
			if err != nil {
				cs.items = []model.Entity{}
				cs.notice = api.Describe(err)
				logger.L().Warn("child fetch failed",
					zap.String("tree", n.tree.Name),
					zap.String("child", ch.Name),
					zap.String("parent", f.id),
					zap.Error(err),
				)
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
				return nil
			}
			if items == nil {
				items = []model.Entity{}
			}
			cs.items = items
			cs.notice = ""
			return nil
		})
	}
	_ = g.Wait()

	if stale {
		return util.ErrStaleResponse
	}
	return firstErr
}

func (f *frame) find(child, id string) (model.Entity, bool) {
	cs, ok := f.children[child]
	if !ok {
		return nil, false
	}
	for _, it := range cs.items {
		if it.EntityID() == id {
			return it, true
		}
	}
	return nil, false
}
