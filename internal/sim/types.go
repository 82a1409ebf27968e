package sim

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Ability descriptors are parsed once from the card database and treated
// as immutable during simulation. Every discriminator is a closed enum
// that rejects unknown names at load time, so a data authoring mistake
// surfaces when the database is read, not mid-fight.

// decodeEnum decodes a YAML scalar into an enum via its name table.
func decodeEnum[T comparable](node *yaml.Node, name string, table map[string]T, out *T) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, ok := table[s]
	if !ok {
		return fmt.Errorf("unknown %s %q", name, s)
	}
	*out = v
	return nil
}

// enumString reverse-looks-up an enum's name, for display and errors.
func enumString[T comparable](v T, table map[string]T) string {
	for s, tv := range table {
		if tv == v {
			return s
		}
	}
	return "unknown"
}

// --- Entry kind ---

type EntryKind int

const (
	EntryItem EntryKind = iota
	EntrySkill
)

var entryKinds = map[string]EntryKind{
	"item":  EntryItem,
	"skill": EntrySkill,
}

func (k EntryKind) String() string { return enumString(k, entryKinds) }

func (k *EntryKind) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, "entry kind", entryKinds, k)
}

// --- Card size ---

type Size int

const (
	SizeSmall Size = iota
	SizeMedium
	SizeLarge
)

var sizes = map[string]Size{
	"small":  SizeSmall,
	"medium": SizeMedium,
	"large":  SizeLarge,
}

func (s Size) String() string { return enumString(s, sizes) }

func (s *Size) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, "size", sizes, s)
}

// --- Card attributes ---

// CardAttr names a numeric attribute on a board entry. Entries carry a
// presence-aware attribute set: a missing attribute is distinct from a
// zero one (an entry without CooldownMax never ticks, an entry without
// AmmoMax never consumes ammo).
type CardAttr int

const (
	AttrNone CardAttr = iota
	AttrCooldownMax
	AttrProgress
	AttrAmmo
	AttrAmmoMax
	AttrMulticast
	AttrCritChance
	AttrDamageCrit
	AttrSlow
	AttrFreeze
	AttrHaste
	AttrDamageAmount
	AttrHealAmount
	AttrPoisonApplyAmount
	AttrPoisonRemoveAmount
	AttrBurnApplyAmount
	AttrBurnRemoveAmount
	AttrShieldApplyAmount
	AttrShieldRemoveAmount
	AttrReloadAmount
	AttrReloadTargets
	AttrFreezeAmount
	AttrFreezeTargets
	AttrSlowAmount
	AttrSlowTargets
	AttrHasteAmount
	AttrHasteTargets
	AttrChargeAmount
	AttrChargeTargets
)

var cardAttrs = map[string]CardAttr{
	"CooldownMax":        AttrCooldownMax,
	"Progress":           AttrProgress,
	"Ammo":               AttrAmmo,
	"AmmoMax":            AttrAmmoMax,
	"Multicast":          AttrMulticast,
	"CritChance":         AttrCritChance,
	"DamageCrit":         AttrDamageCrit,
	"Slow":               AttrSlow,
	"Freeze":             AttrFreeze,
	"Haste":              AttrHaste,
	"DamageAmount":       AttrDamageAmount,
	"HealAmount":         AttrHealAmount,
	"PoisonApplyAmount":  AttrPoisonApplyAmount,
	"PoisonRemoveAmount": AttrPoisonRemoveAmount,
	"BurnApplyAmount":    AttrBurnApplyAmount,
	"BurnRemoveAmount":   AttrBurnRemoveAmount,
	"ShieldApplyAmount":  AttrShieldApplyAmount,
	"ShieldRemoveAmount": AttrShieldRemoveAmount,
	"ReloadAmount":       AttrReloadAmount,
	"ReloadTargets":      AttrReloadTargets,
	"FreezeAmount":       AttrFreezeAmount,
	"FreezeTargets":      AttrFreezeTargets,
	"SlowAmount":         AttrSlowAmount,
	"SlowTargets":        AttrSlowTargets,
	"HasteAmount":        AttrHasteAmount,
	"HasteTargets":       AttrHasteTargets,
	"ChargeAmount":       AttrChargeAmount,
	"ChargeTargets":      AttrChargeTargets,
}

// ParseCardAttr resolves an attribute name from the card database.
func ParseCardAttr(s string) (CardAttr, error) {
	a, ok := cardAttrs[s]
	if !ok {
		return AttrNone, fmt.Errorf("unknown card attribute %q", s)
	}
	return a, nil
}

func (a CardAttr) String() string { return enumString(a, cardAttrs) }

func (a *CardAttr) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, "card attribute", cardAttrs, a)
}

// AttrPatch is an attribute patch as declared by a tier or enchantment.
type AttrPatch map[CardAttr]float64

func (p *AttrPatch) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]float64
	if err := node.Decode(&raw); err != nil {
		return err
	}
	out := make(AttrPatch, len(raw))
	for name, v := range raw {
		a, err := ParseCardAttr(name)
		if err != nil {
			return err
		}
		out[a] = v
	}
	*p = out
	return nil
}

// --- Player attributes ---

type PlayerAttr int

const (
	PlayerAttrNone PlayerAttr = iota
	PlayerHealthMax
	PlayerHealth
	PlayerHealthRegen
	PlayerShield
	PlayerBurn
	PlayerPoison
	PlayerGold
	PlayerIncome
)

var playerAttrs = map[string]PlayerAttr{
	"HealthMax":   PlayerHealthMax,
	"Health":      PlayerHealth,
	"HealthRegen": PlayerHealthRegen,
	"Shield":      PlayerShield,
	"Burn":        PlayerBurn,
	"Poison":      PlayerPoison,
	"Gold":        PlayerGold,
	"Income":      PlayerIncome,
}

func (a PlayerAttr) String() string { return enumString(a, playerAttrs) }

func (a *PlayerAttr) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, "player attribute", playerAttrs, a)
}

// --- Triggers ---

type TriggerKind int

const (
	TriggerNone TriggerKind = iota
	TriggerCardAttributeChanged
	TriggerPlayerAttributeChanged
	TriggerCardFired
	TriggerItemUsed
	TriggerCardCritted
	TriggerFightStarted
	TriggerPlayerDied
	TriggerPerformedPoison
	TriggerPerformedBurn
	TriggerPerformedShield
	TriggerPerformedFreeze
	TriggerPerformedSlow
	TriggerPerformedHaste
	TriggerPerformedDestruction
)

var triggerKinds = map[string]TriggerKind{
	"card_attribute_changed":   TriggerCardAttributeChanged,
	"player_attribute_changed": TriggerPlayerAttributeChanged,
	"card_fired":               TriggerCardFired,
	"item_used":                TriggerItemUsed,
	"card_critted":             TriggerCardCritted,
	"fight_started":            TriggerFightStarted,
	"player_died":              TriggerPlayerDied,
	"performed_poison":         TriggerPerformedPoison,
	"performed_burn":           TriggerPerformedBurn,
	"performed_shield":         TriggerPerformedShield,
	"performed_freeze":         TriggerPerformedFreeze,
	"performed_slow":           TriggerPerformedSlow,
	"performed_haste":          TriggerPerformedHaste,
	"performed_destruction":    TriggerPerformedDestruction,
}

func (k TriggerKind) String() string { return enumString(k, triggerKinds) }

func (k *TriggerKind) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, "trigger kind", triggerKinds, k)
}

type ChangeType int

const (
	ChangeNone ChangeType = iota
	ChangeGain
	ChangeLoss
)

var changeTypes = map[string]ChangeType{
	"gain": ChangeGain,
	"loss": ChangeLoss,
}

func (c ChangeType) String() string { return enumString(c, changeTypes) }

func (c *ChangeType) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, "change type", changeTypes, c)
}

// Trigger declares the event condition under which an ability fires.
type Trigger struct {
	Kind            TriggerKind `yaml:"kind"`
	Attribute       CardAttr    `yaml:"attribute"`        // card_attribute_changed
	PlayerAttribute PlayerAttr  `yaml:"player_attribute"` // player_attribute_changed
	Change          ChangeType  `yaml:"change"`
	Subject         *Target     `yaml:"subject"`
}

// --- Actions ---

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionDamage
	ActionHeal
	ActionPoisonApply
	ActionPoisonRemove
	ActionBurnApply
	ActionBurnRemove
	ActionShieldApply
	ActionShieldRemove
	ActionReviveHeal
	ActionDisable
	ActionReload
	ActionFreeze
	ActionSlow
	ActionHaste
	ActionCharge
	ActionModifyCardAttribute
	ActionAuraModifyCardAttribute
	ActionModifyPlayerAttribute
	ActionAuraModifyPlayerAttribute
)

var actionKinds = map[string]ActionKind{
	"damage":                       ActionDamage,
	"heal":                         ActionHeal,
	"poison_apply":                 ActionPoisonApply,
	"poison_remove":                ActionPoisonRemove,
	"burn_apply":                   ActionBurnApply,
	"burn_remove":                  ActionBurnRemove,
	"shield_apply":                 ActionShieldApply,
	"shield_remove":                ActionShieldRemove,
	"revive_heal":                  ActionReviveHeal,
	"disable":                      ActionDisable,
	"reload":                       ActionReload,
	"freeze":                       ActionFreeze,
	"slow":                         ActionSlow,
	"haste":                        ActionHaste,
	"charge":                       ActionCharge,
	"modify_card_attribute":        ActionModifyCardAttribute,
	"aura_modify_card_attribute":   ActionAuraModifyCardAttribute,
	"modify_player_attribute":      ActionModifyPlayerAttribute,
	"aura_modify_player_attribute": ActionAuraModifyPlayerAttribute,
}

func (k ActionKind) String() string { return enumString(k, actionKinds) }

func (k *ActionKind) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, "action kind", actionKinds, k)
}

type Operation int

const (
	OperationNone Operation = iota
	OperationAdd
	OperationSubtract
	OperationMultiply
)

var operations = map[string]Operation{
	"add":      OperationAdd,
	"subtract": OperationSubtract,
	"multiply": OperationMultiply,
}

func (o Operation) String() string { return enumString(o, operations) }

func (o *Operation) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, "operation", operations, o)
}

// Action is the effect half of an ability.
type Action struct {
	Kind            ActionKind `yaml:"kind"`
	Target          *Target    `yaml:"target"`
	Value           *Value     `yaml:"value"`            // attribute modify
	Attribute       CardAttr   `yaml:"attribute"`        // attribute modify (card)
	PlayerAttribute PlayerAttr `yaml:"player_attribute"` // attribute modify (player)
	Operation       Operation  `yaml:"operation"`
	TargetCount     *Value     `yaml:"target_count"`
}

// --- Targets ---

type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetSelf
	TargetTriggerSource
	TargetPositional
	TargetSection
	TargetRandom
	TargetXMost
	TargetPlayer
)

var targetKinds = map[string]TargetKind{
	"self":           TargetSelf,
	"trigger_source": TargetTriggerSource,
	"positional":     TargetPositional,
	"section":        TargetSection,
	"random":         TargetRandom,
	"xmost":          TargetXMost,
	"player":         TargetPlayer,
}

func (k TargetKind) String() string { return enumString(k, targetKinds) }

func (k *TargetKind) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, "target kind", targetKinds, k)
}

type TargetMode int

const (
	ModeNone TargetMode = iota
	ModeAllRight
	ModeAllLeft
	ModeNeighbor
	ModeRight
	ModeLeft
	ModeLeftmost
	ModeRightmost
	ModeSelf
	ModeOpponent
	ModeBoth
)

var targetModes = map[string]TargetMode{
	"all_right": ModeAllRight,
	"all_left":  ModeAllLeft,
	"neighbor":  ModeNeighbor,
	"right":     ModeRight,
	"left":      ModeLeft,
	"leftmost":  ModeLeftmost,
	"rightmost": ModeRightmost,
	"self":      ModeSelf,
	"opponent":  ModeOpponent,
	"both":      ModeBoth,
}

func (m TargetMode) String() string { return enumString(m, targetModes) }

func (m *TargetMode) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, "target mode", targetModes, m)
}

type Section int

const (
	SectionNone Section = iota
	SectionSelfBoard
	SectionSelfHand
	SectionOpponentBoard
	SectionOpponentHand
	SectionAllHands
)

var targetSections = map[string]Section{
	"self_board":     SectionSelfBoard,
	"self_hand":      SectionSelfHand,
	"opponent_board": SectionOpponentBoard,
	"opponent_hand":  SectionOpponentHand,
	"all_hands":      SectionAllHands,
}

func (s Section) String() string { return enumString(s, targetSections) }

func (s *Section) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, "target section", targetSections, s)
}

type Origin int

const (
	OriginTarget Origin = iota
	OriginTriggerSource
)

var origins = map[string]Origin{
	"target":         OriginTarget,
	"trigger_source": OriginTriggerSource,
}

func (o Origin) String() string { return enumString(o, origins) }

func (o *Origin) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, "origin", origins, o)
}

// Target is a data-driven rule for resolving which entries or players an
// action, value, or trigger subject applies to.
type Target struct {
	Kind          TargetKind `yaml:"kind"`
	Mode          TargetMode `yaml:"mode"`
	Section       Section    `yaml:"section"`
	Origin        Origin     `yaml:"origin"`
	IncludeOrigin bool       `yaml:"include_origin"`
	ExcludeSelf   bool       `yaml:"exclude_self"`
	Conditions    *Condition `yaml:"conditions"`
}

// --- Values ---

type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueFixed
	ValueCardAttribute
	ValuePlayerAttribute
	ValueCardCount
)

var valueKinds = map[string]ValueKind{
	"fixed":            ValueFixed,
	"card_attribute":   ValueCardAttribute,
	"player_attribute": ValuePlayerAttribute,
	"card_count":       ValueCardCount,
}

func (k ValueKind) String() string { return enumString(k, valueKinds) }

func (k *ValueKind) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, "value kind", valueKinds, k)
}

type ModifyMode int

const (
	ModifyNone ModifyMode = iota
	ModifyMultiply
)

var modifyModes = map[string]ModifyMode{
	"multiply": ModifyMultiply,
}

func (m ModifyMode) String() string { return enumString(m, modifyModes) }

func (m *ModifyMode) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, "modify mode", modifyModes, m)
}

// Value is a numeric expression evaluated against a target set.
type Value struct {
	Kind            ValueKind      `yaml:"kind"`
	Amount          float64        `yaml:"amount"`  // fixed
	Default         float64        `yaml:"default"` // attribute references
	Attribute       CardAttr       `yaml:"attribute"`
	PlayerAttribute PlayerAttr     `yaml:"player_attribute"`
	Target          *Target        `yaml:"target"`
	Modifier        *ValueModifier `yaml:"modifier"`
}

// ValueModifier scales the value it is attached to.
type ValueModifier struct {
	Mode  ModifyMode `yaml:"mode"`
	Value *Value     `yaml:"value"`
}

// --- Conditions ---

type ConditionKind int

const (
	ConditionNone ConditionKind = iota
	ConditionAttribute
	ConditionPlayerAttribute
	ConditionSize
	ConditionEnchantment
	ConditionTag
	ConditionHiddenTag
	ConditionAnd
	ConditionOr
	ConditionHighestAttribute
)

var conditionKinds = map[string]ConditionKind{
	"attribute":         ConditionAttribute,
	"player_attribute":  ConditionPlayerAttribute,
	"size":              ConditionSize,
	"enchantment":       ConditionEnchantment,
	"tag":               ConditionTag,
	"hidden_tag":        ConditionHiddenTag,
	"and":               ConditionAnd,
	"or":                ConditionOr,
	"highest_attribute": ConditionHighestAttribute,
}

func (k ConditionKind) String() string { return enumString(k, conditionKinds) }

func (k *ConditionKind) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, "condition kind", conditionKinds, k)
}

type Comparison int

const (
	ComparisonNone Comparison = iota
	ComparisonEqual
	ComparisonGreaterThan
	ComparisonGreaterOrEqual
	ComparisonLessThan
	ComparisonLessOrEqual
)

var comparisons = map[string]Comparison{
	"equal":            ComparisonEqual,
	"greater_than":     ComparisonGreaterThan,
	"greater_or_equal": ComparisonGreaterOrEqual,
	"less_than":        ComparisonLessThan,
	"less_or_equal":    ComparisonLessOrEqual,
}

func (c Comparison) String() string { return enumString(c, comparisons) }

func (c *Comparison) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, "comparison", comparisons, c)
}

// compare applies c to two numbers. Unknown comparisons are false.
func (c Comparison) compare(a, b float64) bool {
	switch c {
	case ComparisonEqual:
		return a == b
	case ComparisonGreaterThan:
		return a > b
	case ComparisonGreaterOrEqual:
		return a >= b
	case ComparisonLessThan:
		return a < b
	case ComparisonLessOrEqual:
		return a <= b
	default:
		return false
	}
}

type TagOperator int

const (
	TagOperatorNone TagOperator = iota
	TagAny
	TagNone
)

var tagOperators = map[string]TagOperator{
	"any":  TagAny,
	"none": TagNone,
}

func (o TagOperator) String() string { return enumString(o, tagOperators) }

func (o *TagOperator) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, "tag operator", tagOperators, o)
}

// Condition is a boolean predicate over a board entry or player.
type Condition struct {
	Kind            ConditionKind `yaml:"kind"`
	Attribute       CardAttr      `yaml:"attribute"`
	PlayerAttribute PlayerAttr    `yaml:"player_attribute"`
	Comparison      Comparison    `yaml:"comparison"`
	ComparisonValue *Value        `yaml:"comparison_value"`
	Sizes           []Size        `yaml:"sizes"`
	Enchantment     string        `yaml:"enchantment"`
	IsNot           bool          `yaml:"is_not"`
	Tags            []string      `yaml:"tags"`
	Operator        TagOperator   `yaml:"operator"`
	Conditions      []*Condition  `yaml:"conditions"` // and / or
}

// --- Prerequisites ---

type PrereqKind int

const (
	PrereqNone PrereqKind = iota
	PrereqCardCount
	PrereqPlayer
	PrereqAlways
)

var prereqKinds = map[string]PrereqKind{
	"card_count": PrereqCardCount,
	"player":     PrereqPlayer,
	"always":     PrereqAlways,
}

func (k PrereqKind) String() string { return enumString(k, prereqKinds) }

func (k *PrereqKind) UnmarshalYAML(node *yaml.Node) error {
	return decodeEnum(node, "prerequisite kind", prereqKinds, k)
}

// Prerequisite is a boolean gate evaluated before an action executes.
// Evaluation is conjunctive: any failing prerequisite blocks the action.
type Prerequisite struct {
	Kind       PrereqKind `yaml:"kind"`
	Subject    *Target    `yaml:"subject"`
	Comparison Comparison `yaml:"comparison"`
	Amount     float64    `yaml:"amount"`
}

// Ability pairs a trigger with an action and optional prerequisites.
type Ability struct {
	Trigger       Trigger         `yaml:"trigger"`
	Action        Action          `yaml:"action"`
	Prerequisites []*Prerequisite `yaml:"prerequisites"`
}
