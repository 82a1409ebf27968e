package sim

// actionValue evaluates a numeric value expression against its target
// set. An unset or unresolvable expression yields 0 without applying the
// modifier.
func (gs *GameState) actionValue(v *Value, trigger, target CardRef) (float64, error) {
	if v == nil {
		return 0, nil
	}

	var (
		amount float64
		set    bool
	)
	switch v.Kind {
	case ValueFixed:
		amount = v.Amount
		set = true

	case ValueCardAttribute:
		refs, err := gs.targetCards(v.Target, trigger, target)
		if err != nil {
			return 0, err
		}
		amount = v.Default
		for _, ref := range refs {
			amount += gs.entry(ref).AttrOr0(v.Attribute)
		}
		set = true

	case ValuePlayerAttribute:
		players, err := gs.targetPlayers(v.Target, trigger.Player, target.Player)
		if err != nil {
			return 0, err
		}
		for _, playerID := range players {
			amount = v.Default + gs.Players[playerID].Attr(v.PlayerAttribute)
			set = true
		}

	case ValueCardCount:
		refs, err := gs.targetCards(v.Target, trigger, target)
		if err != nil {
			return 0, err
		}
		amount = float64(len(refs))
		set = true
	}

	if set && v.Modifier != nil {
		mod, err := gs.actionValue(v.Modifier.Value, trigger, target)
		if err != nil {
			return 0, err
		}
		if v.Modifier.Mode == ModifyMultiply {
			amount *= mod
		}
	}
	if !set {
		return 0, nil
	}
	return amount, nil
}
