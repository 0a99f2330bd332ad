package content

import (
	"context"
	"english_admin/internal/form"
	"english_admin/internal/model"
	"english_admin/internal/resource"
)

// Editor 某个游戏下的内容编辑页，列表与增删改复用通用控制器
type Editor struct {
	Game    model.Game
	Variant Variant
	*resource.Controller[model.Entity]
}

// Open 按游戏类型选择变体并拉取内容；类型不支持时返回 *UnsupportedError
func (d *Dispatcher) Open(ctx context.Context, game model.Game) (*Editor, error) {
	v, err := d.Dispatch(string(game.GameType))
	if err != nil {
		return nil, err
	}
	ctl := resource.NewController[model.Entity](v.Resource(), v.source(game.GameID), v.Schema(),
		resource.WithSearch(func(it model.Entity) string { return v.Summarize(it).Summary }),
	)
	e := &Editor{Game: game, Variant: v, Controller: ctl}
	err = ctl.Refresh(ctx, resource.Filter{})
	return e, err
}

// NewForm 新建表单，displayOrder 默认排在最后
func (e *Editor) NewForm() form.State {
	return e.Variant.NewForm(len(e.View().Items))
}

// Summaries 与列表行一一对应的摘要
func (e *Editor) Summaries() []Preview {
	items := e.View().Items
	out := make([]Preview, len(items))
	for i, it := range items {
		out[i] = e.Variant.Summarize(it)
	}
	return out
}
