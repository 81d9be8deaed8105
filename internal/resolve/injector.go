package resolve

import (
	"go.uber.org/zap"

	"github.com/mvp-joe/beancraft/internal/config"
	"github.com/mvp-joe/beancraft/internal/model"
)

// VirtualFieldInjector appends configured synthetic fields to declarations.
type VirtualFieldInjector struct {
	blocks []config.VirtualFieldBlock
	logger *zap.Logger
}

// NewVirtualFieldInjector creates an injector for blocks, applied in order.
func NewVirtualFieldInjector(blocks []config.VirtualFieldBlock, logger *zap.Logger) *VirtualFieldInjector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VirtualFieldInjector{blocks: blocks, logger: logger}
}

// Inject appends every block's fields to its target and returns the number of
// fields added. Blocks naming an unknown declaration are skipped silently.
// A field whose name the target already has is skipped so names stay unique.
func (i *VirtualFieldInjector) Inject(byName map[string]*model.Declaration) int {
	added := 0
	for _, block := range i.blocks {
		target, ok := byName[block.Target]
		if !ok {
			continue
		}
		for _, spec := range block.Fields {
			if target.HasField(spec.Name) {
				i.logger.Warn("virtual field already exists, skipping",
					zap.String("declaration", target.Name),
					zap.String("field", spec.Name))
				continue
			}
			target.Fields = append(target.Fields, virtualField(spec))
			added++
		}
	}
	return added
}

func virtualField(spec config.VirtualFieldSpec) *model.Field {
	f := &model.Field{
		Name:       spec.Name,
		Type:       spec.Type,
		SourceType: spec.Type,
		Comment:    spec.Comment,
		Optional:   spec.Optional,
	}
	if spec.Relocate != nil && spec.Relocate.To != "" {
		f.Relocate = model.RelocateTag(spec.Relocate.To, spec.Relocate.Prefix, spec.Relocate.Bean)
	}
	return f
}
