package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ascentcg/ascent-server-go/internal/game/grid"
	"github.com/ascentcg/ascent-server-go/internal/game/modifier"
)

// cardFile mirrors the YAML catalog format. The engine consumes the
// parsed Catalog; this loader is the content-side collaborator.
type cardFile struct {
	Cards []cardYAML `yaml:"cards"`
}

type cardYAML struct {
	ID      string       `yaml:"id"`
	Name    string       `yaml:"name"`
	Type    string       `yaml:"type"`
	Rarity  string       `yaml:"rarity"`
	Cost    int          `yaml:"cost"`
	Power   int          `yaml:"power"`
	Effects []effectYAML `yaml:"effects"`
	Target  targetYAML   `yaml:"target"`
}

type effectYAML struct {
	Kind        string  `yaml:"kind"`
	Magnitude   int     `yaml:"magnitude"`
	Stat        string  `yaml:"stat"`
	Duration    int     `yaml:"duration"`
	Stacking    string  `yaml:"stacking"`
	Penetrating bool    `yaml:"penetrating"`
	Overheal    bool    `yaml:"overheal"`
	ScaleWith   string  `yaml:"scale_with"`
	ScaleFactor float64 `yaml:"scale_factor"`
	FilterType  string  `yaml:"filter_type"`
	FilterCost  string  `yaml:"filter_cost"` // "=3", "<3", ">3"
}

type targetYAML struct {
	Shape  string `yaml:"shape"`
	Range  int    `yaml:"range"`
	Radius int    `yaml:"radius"`
	Origin string `yaml:"origin"`
	Anchor string `yaml:"anchor"`
}

// LoadFile reads a YAML card catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var file cardFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	cards := make([]Card, 0, len(file.Cards))
	for _, cy := range file.Cards {
		card, err := cy.toCard()
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", cy.ID, err)
		}
		cards = append(cards, card)
	}
	return New(cards)
}

func (cy cardYAML) toCard() (Card, error) {
	cardType, err := parseCardType(cy.Type)
	if err != nil {
		return Card{}, err
	}
	rarity, err := parseRarity(cy.Rarity)
	if err != nil {
		return Card{}, err
	}
	target, err := cy.Target.toRule()
	if err != nil {
		return Card{}, err
	}

	effects := make([]Effect, 0, len(cy.Effects))
	for i, ey := range cy.Effects {
		effect, err := ey.toEffect()
		if err != nil {
			return Card{}, fmt.Errorf("effect %d: %w", i, err)
		}
		effects = append(effects, effect)
	}

	return Card{
		ID:      CardID(cy.ID),
		Name:    cy.Name,
		Type:    cardType,
		Rarity:  rarity,
		Cost:    cy.Cost,
		Power:   cy.Power,
		Effects: effects,
		Target:  target,
	}, nil
}

func (ey effectYAML) toEffect() (Effect, error) {
	e := Effect{
		Magnitude:   ey.Magnitude,
		Penetrating: ey.Penetrating,
		Overheal:    ey.Overheal,
		Duration:    ey.Duration,
	}

	switch strings.ToLower(ey.Kind) {
	case "damage":
		e.Kind = EffectDamage
	case "heal":
		e.Kind = EffectHeal
	case "draw":
		e.Kind = EffectDraw
	case "boost":
		e.Kind = EffectBoost
	case "buff":
		e.Kind = EffectBuff
	case "debuff":
		e.Kind = EffectDebuff
	default:
		return Effect{}, fmt.Errorf("unknown effect kind %q", ey.Kind)
	}

	if ey.Stat != "" {
		switch strings.ToLower(ey.Stat) {
		case "attack":
			e.Stat = modifier.StatAttack
		case "defense":
			e.Stat = modifier.StatDefense
		case "resource":
			e.Stat = modifier.StatResource
		default:
			return Effect{}, fmt.Errorf("unknown stat %q", ey.Stat)
		}
	}

	if ey.Stacking != "" {
		switch strings.ToLower(ey.Stacking) {
		case "additive":
			e.Stacking = modifier.StackAdditive
		case "replace_if_stronger":
			e.Stacking = modifier.StackReplaceIfStronger
		case "refresh_duration":
			e.Stacking = modifier.StackRefreshDuration
		case "independent":
			e.Stacking = modifier.StackIndependent
		default:
			return Effect{}, fmt.Errorf("unknown stacking policy %q", ey.Stacking)
		}
	}

	if ey.ScaleWith != "" {
		switch strings.ToLower(ey.ScaleWith) {
		case "mountain_level":
			e.Scaling = Scaling{Kind: ScaleMountainLevel, Factor: ey.ScaleFactor}
		case "cards_in_hand":
			e.Scaling = Scaling{Kind: ScaleCardsInHand, Factor: ey.ScaleFactor}
		case "cards_played":
			e.Scaling = Scaling{Kind: ScaleCardsPlayed, Factor: ey.ScaleFactor}
		case "resource_spent":
			e.Scaling = Scaling{Kind: ScaleResourceSpent, Factor: ey.ScaleFactor}
		default:
			return Effect{}, fmt.Errorf("unknown scaling %q", ey.ScaleWith)
		}
	}

	filter, err := parseFilter(ey)
	if err != nil {
		return Effect{}, err
	}
	e.Filter = filter

	return e, nil
}

func parseFilter(ey effectYAML) (*DrawFilter, error) {
	if ey.FilterType == "" && ey.FilterCost == "" {
		return nil, nil
	}
	f := &DrawFilter{}
	if ey.FilterType != "" {
		t, err := parseCardType(ey.FilterType)
		if err != nil {
			return nil, err
		}
		f.ByType = &t
	}
	if ey.FilterCost != "" {
		spec := strings.TrimSpace(ey.FilterCost)
		if len(spec) < 2 {
			return nil, fmt.Errorf("malformed cost filter %q", spec)
		}
		cf := CostFilter{}
		switch spec[0] {
		case '=':
			cf.Op = FilterEqual
		case '<':
			cf.Op = FilterLess
		case '>':
			cf.Op = FilterGreater
		default:
			return nil, fmt.Errorf("malformed cost filter %q", spec)
		}
		if _, err := fmt.Sscanf(spec[1:], "%d", &cf.Cost); err != nil {
			return nil, fmt.Errorf("malformed cost filter %q: %w", spec, err)
		}
		f.ByCost = &cf
	}
	return f, nil
}

func (ty targetYAML) toRule() (TargetingRule, error) {
	rule := TargetingRule{
		Range:  ty.Range,
		Radius: ty.Radius,
	}

	switch strings.ToLower(ty.Shape) {
	case "", "single":
		rule.Shape = grid.ShapeSingle
	case "area":
		rule.Shape = grid.ShapeArea
	case "line":
		rule.Shape = grid.ShapeLine
	default:
		return TargetingRule{}, fmt.Errorf("unknown shape %q", ty.Shape)
	}

	switch strings.ToLower(ty.Origin) {
	case "", "any":
		rule.Origin = OriginAny
	case "self":
		rule.Origin = OriginSelf
	case "ally":
		rule.Origin = OriginAlly
	case "enemy":
		rule.Origin = OriginEnemy
	default:
		return TargetingRule{}, fmt.Errorf("unknown origin %q", ty.Origin)
	}

	switch strings.ToLower(ty.Anchor) {
	case "", "caster":
		rule.RelativeTo = RelativeCaster
	case "cell":
		rule.RelativeTo = RelativeChosenCell
	default:
		return TargetingRule{}, fmt.Errorf("unknown anchor %q", ty.Anchor)
	}

	return rule, nil
}

func parseCardType(s string) (CardType, error) {
	switch strings.ToLower(s) {
	case "climber":
		return TypeClimber, nil
	case "spell":
		return TypeSpell, nil
	case "weapon":
		return TypeWeapon, nil
	case "trap":
		return TypeTrap, nil
	case "gear":
		return TypeGear, nil
	default:
		return 0, fmt.Errorf("unknown card type %q", s)
	}
}

func parseRarity(s string) (Rarity, error) {
	switch strings.ToLower(s) {
	case "", "common":
		return RarityCommon, nil
	case "uncommon":
		return RarityUncommon, nil
	case "rare":
		return RarityRare, nil
	case "legendary":
		return RarityLegendary, nil
	default:
		return 0, fmt.Errorf("unknown rarity %q", s)
	}
}
