package wordnet

// RelType is a relation type drawn from one of the closed vocabularies below.
type RelType string

// Synset-to-synset relation types.
const (
	Hypernym         RelType = "hypernym"
	Hyponym          RelType = "hyponym"
	InstanceHypernym RelType = "instance_hypernym"
	InstanceHyponym  RelType = "instance_hyponym"

	Holonym       RelType = "holonym"
	Meronym       RelType = "meronym"
	HoloMember    RelType = "holo_member"
	HoloPart      RelType = "holo_part"
	HoloPortion   RelType = "holo_portion"
	HoloSubstance RelType = "holo_substance"
	HoloLocation  RelType = "holo_location"
	MeroMember    RelType = "mero_member"
	MeroPart      RelType = "mero_part"
	MeroPortion   RelType = "mero_portion"
	MeroSubstance RelType = "mero_substance"
	MeroLocation  RelType = "mero_location"

	Antonym      RelType = "antonym"
	Similar      RelType = "similar"
	Also         RelType = "also"
	Attribute    RelType = "attribute"
	Entails      RelType = "entails"
	IsEntailedBy RelType = "is_entailed_by"
	Causes       RelType = "causes"
	IsCausedBy   RelType = "is_caused_by"

	DomainTopic     RelType = "domain_topic"
	HasDomainTopic  RelType = "has_domain_topic"
	DomainRegion    RelType = "domain_region"
	HasDomainRegion RelType = "has_domain_region"
	Exemplifies     RelType = "exemplifies"
	IsExemplifiedBy RelType = "is_exemplified_by"

	EqSynonym    RelType = "eq_synonym"
	IrSynonym    RelType = "ir_synonym"
	StateOf      RelType = "state_of"
	BeInState    RelType = "be_in_state"
	Subevent     RelType = "subevent"
	IsSubeventOf RelType = "is_subevent_of"
	MannerOf     RelType = "manner_of"
	InManner     RelType = "in_manner"
	Restricts    RelType = "restricts"
	RestrictedBy RelType = "restricted_by"
	Classifies   RelType = "classifies"
	ClassifiedBy RelType = "classified_by"

	Agent                   RelType = "agent"
	InvolvedAgent           RelType = "involved_agent"
	Patient                 RelType = "patient"
	InvolvedPatient         RelType = "involved_patient"
	Instrument              RelType = "instrument"
	InvolvedInstrument      RelType = "involved_instrument"
	Location                RelType = "location"
	InvolvedLocation        RelType = "involved_location"
	Result                  RelType = "result"
	InvolvedResult          RelType = "involved_result"
	Direction               RelType = "direction"
	InvolvedDirection       RelType = "involved_direction"
	SourceDirection         RelType = "source_direction"
	InvolvedSourceDirection RelType = "involved_source_direction"
	TargetDirection         RelType = "target_direction"
	InvolvedTargetDirection RelType = "involved_target_direction"
	Role                    RelType = "role"
	Involved                RelType = "involved"
	CoRole                  RelType = "co_role"

	CoAgentInstrument   RelType = "co_agent_instrument"
	CoInstrumentAgent   RelType = "co_instrument_agent"
	CoAgentPatient      RelType = "co_agent_patient"
	CoPatientAgent      RelType = "co_patient_agent"
	CoAgentResult       RelType = "co_agent_result"
	CoResultAgent       RelType = "co_result_agent"
	CoInstrumentPatient RelType = "co_instrument_patient"
	CoPatientInstrument RelType = "co_patient_instrument"
	CoInstrumentResult  RelType = "co_instrument_result"
	CoResultInstrument  RelType = "co_result_instrument"

	Feminine        RelType = "feminine"
	HasFeminine     RelType = "has_feminine"
	Masculine       RelType = "masculine"
	HasMasculine    RelType = "has_masculine"
	Young           RelType = "young"
	HasYoung        RelType = "has_young"
	Diminutive      RelType = "diminutive"
	HasDiminutive   RelType = "has_diminutive"
	Augmentative    RelType = "augmentative"
	HasAugmentative RelType = "has_augmentative"

	AntoGradable RelType = "anto_gradable"
	AntoSimple   RelType = "anto_simple"
	AntoConverse RelType = "anto_converse"
	OtherRel     RelType = "other"
)

// Sense-to-sense relation types not shared with the synset vocabulary.
const (
	Derivation        RelType = "derivation"
	Participle        RelType = "participle"
	Pertainym         RelType = "pertainym"
	SimpleAspectIP    RelType = "simple_aspect_ip"
	SimpleAspectPI    RelType = "simple_aspect_pi"
	SecondaryAspectIP RelType = "secondary_aspect_ip"
	SecondaryAspectPI RelType = "secondary_aspect_pi"
	Metaphor          RelType = "metaphor"
	HasMetaphor       RelType = "has_metaphor"
	Metonym           RelType = "metonym"
	HasMetonym        RelType = "has_metonym"

	// Morphosemantic links. Directed, no defined inverse.
	Material    RelType = "material"
	Event       RelType = "event"
	ByMeansOf   RelType = "by_means_of"
	Undergoer   RelType = "undergoer"
	Property    RelType = "property"
	State       RelType = "state"
	Uses        RelType = "uses"
	Destination RelType = "destination"
	BodyPart    RelType = "body_part"
	Vehicle     RelType = "vehicle"
)

// Vocabulary is a frozen relation-type lookup table for one endpoint pairing.
// Instances are built once at package init and never mutated afterwards; the
// relation engine receives them by reference.
type Vocabulary struct {
	name     string
	members  map[RelType]struct{}
	inverses map[RelType]RelType
}

// Name identifies the vocabulary in error messages ("synset", "sense",
// "sense-synset").
func (v *Vocabulary) Name() string { return v.name }

// Contains reports whether t is a member of the vocabulary.
func (v *Vocabulary) Contains(t RelType) bool {
	_, ok := v.members[t]
	return ok
}

// Inverse returns the inverse type of t within this vocabulary. Symmetric
// types are their own inverse. The second result is false for types with no
// defined inverse.
func (v *Vocabulary) Inverse(t RelType) (RelType, bool) {
	inv, ok := v.inverses[t]
	return inv, ok
}

// IsSymmetric reports whether t is its own inverse, e.g. "similar".
func (v *Vocabulary) IsSymmetric(t RelType) bool {
	inv, ok := v.inverses[t]
	return ok && inv == t
}

// Types returns the members of the vocabulary in unspecified order.
func (v *Vocabulary) Types() []RelType {
	out := make([]RelType, 0, len(v.members))
	for t := range v.members {
		out = append(out, t)
	}
	return out
}

// The three vocabularies of the interchange schema.
var (
	SynsetRelations      *Vocabulary
	SenseRelations       *Vocabulary
	SenseSynsetRelations *Vocabulary
)

// relPair declares an asymmetric type and its inverse. Both directions are
// registered in the vocabulary.
type relPair struct{ a, b RelType }

func buildVocabulary(name string, pairs []relPair, symmetric, uninverted []RelType) *Vocabulary {
	v := &Vocabulary{
		name:     name,
		members:  make(map[RelType]struct{}),
		inverses: make(map[RelType]RelType),
	}
	for _, p := range pairs {
		v.members[p.a] = struct{}{}
		v.members[p.b] = struct{}{}
		v.inverses[p.a] = p.b
		v.inverses[p.b] = p.a
	}
	for _, t := range symmetric {
		v.members[t] = struct{}{}
		v.inverses[t] = t
	}
	for _, t := range uninverted {
		v.members[t] = struct{}{}
	}
	return v
}

func init() {
	SynsetRelations = buildVocabulary("synset",
		[]relPair{
			{Hypernym, Hyponym},
			{InstanceHypernym, InstanceHyponym},
			{Holonym, Meronym},
			{HoloMember, MeroMember},
			{HoloPart, MeroPart},
			{HoloPortion, MeroPortion},
			{HoloSubstance, MeroSubstance},
			{HoloLocation, MeroLocation},
			{Entails, IsEntailedBy},
			{Causes, IsCausedBy},
			{DomainTopic, HasDomainTopic},
			{DomainRegion, HasDomainRegion},
			{Exemplifies, IsExemplifiedBy},
			{StateOf, BeInState},
			{Subevent, IsSubeventOf},
			{MannerOf, InManner},
			{Restricts, RestrictedBy},
			{Classifies, ClassifiedBy},
			{Agent, InvolvedAgent},
			{Patient, InvolvedPatient},
			{Instrument, InvolvedInstrument},
			{Location, InvolvedLocation},
			{Result, InvolvedResult},
			{Direction, InvolvedDirection},
			{SourceDirection, InvolvedSourceDirection},
			{TargetDirection, InvolvedTargetDirection},
			{Role, Involved},
			{CoAgentInstrument, CoInstrumentAgent},
			{CoAgentPatient, CoPatientAgent},
			{CoAgentResult, CoResultAgent},
			{CoInstrumentPatient, CoPatientInstrument},
			{CoInstrumentResult, CoResultInstrument},
			{Feminine, HasFeminine},
			{Masculine, HasMasculine},
			{Young, HasYoung},
			{Diminutive, HasDiminutive},
			{Augmentative, HasAugmentative},
		},
		[]RelType{Antonym, Similar, Also, Attribute, EqSynonym, IrSynonym, CoRole, AntoGradable, AntoSimple, AntoConverse},
		[]RelType{OtherRel},
	)

	SenseRelations = buildVocabulary("sense",
		[]relPair{
			{DomainTopic, HasDomainTopic},
			{DomainRegion, HasDomainRegion},
			{Exemplifies, IsExemplifiedBy},
			{SimpleAspectIP, SimpleAspectPI},
			{SecondaryAspectIP, SecondaryAspectPI},
			{Metaphor, HasMetaphor},
			{Metonym, HasMetonym},
			{Feminine, HasFeminine},
			{Masculine, HasMasculine},
			{Young, HasYoung},
			{Diminutive, HasDiminutive},
			{Augmentative, HasAugmentative},
		},
		[]RelType{Antonym, Similar, Also, Derivation, AntoGradable, AntoSimple, AntoConverse},
		[]RelType{
			Participle, Pertainym, OtherRel,
			Agent, Material, Event, Instrument, Location, ByMeansOf,
			Undergoer, Property, Result, State, Uses, Destination, BodyPart, Vehicle,
		},
	)

	// Sense-to-synset relations cross entity kinds, so no inverse row can
	// exist and none is defined.
	SenseSynsetRelations = buildVocabulary("sense-synset",
		nil,
		nil,
		[]RelType{DomainTopic, DomainRegion, Exemplifies, OtherRel},
	)
}
