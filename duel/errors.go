package duel

import (
	"fmt"

	"github.com/plus3/braga/ecs"
)

var (
	ErrAlreadyEquippingItem = fmt.Errorf("%w: already equipping that item", ecs.ErrDuplicateRelation)
	ErrAlreadyEquippingType = fmt.Errorf("%w: already equipping an item of this type", ecs.ErrDuplicateRelation)
	ErrEquippedElsewhere    = fmt.Errorf("%w: item is equipped by another bearer", ecs.ErrDuplicateRelation)
)
