package runconfig

type Config struct {
	RandomSeed  int               `koanf:"random_seed" json:"random_seed"`
	ModelName   string            `koanf:"model_name" json:"model_name"`
	Dataset     DatasetConfig     `koanf:"dataset" json:"dataset"`
	Model       ModelConfig       `koanf:"model" json:"model"`
	Optimizer   OptimizerConfig   `koanf:"optimizer" json:"optimizer"`
	LRScheduler LRSchedulerConfig `koanf:"lr_scheduler" json:"lr_scheduler"`
	Trainer     TrainerConfig     `koanf:"trainer" json:"trainer"`
	Tester      TesterConfig      `koanf:"tester" json:"tester"`
}

type DatasetConfig struct {
	Type         string   `koanf:"type" json:"type"`
	RootDir      string   `koanf:"root_dir" json:"root_dir"`
	TrainSplit   string   `koanf:"train_split" json:"train_split"`
	TestSplit    string   `koanf:"test_split" json:"test_split"`
	BatchSize    int      `koanf:"batch_size" json:"batch_size"`
	Use3DCenter  bool     `koanf:"use_3d_center" json:"use_3d_center"`
	ClassMerging bool     `koanf:"class_merging" json:"class_merging"`
	UseDontCare  bool     `koanf:"use_dontcare" json:"use_dontcare"`
	BBox2DType   string   `koanf:"bbox2d_type" json:"bbox2d_type"`
	MeanShape    bool     `koanf:"meanshape" json:"meanshape"`
	Writelist    []string `koanf:"writelist" json:"writelist"`
	Clip2D       bool     `koanf:"clip_2d" json:"clip_2d"`
	AugPD        bool     `koanf:"aug_pd" json:"aug_pd"`
	AugCrop      bool     `koanf:"aug_crop" json:"aug_crop"`
	AugCalib     bool     `koanf:"aug_calib" json:"aug_calib"`
	RandomFlip   float64  `koanf:"random_flip" json:"random_flip"`
	RandomCrop   float64  `koanf:"random_crop" json:"random_crop"`
	RandomMixup  float64  `koanf:"random_mixup3d" json:"random_mixup3d"`
	Scale        float64  `koanf:"scale" json:"scale"`
	Shift        float64  `koanf:"shift" json:"shift"`
	RangeScale   string   `koanf:"range_scale" json:"range_scale"`
	ImageDir     string   `koanf:"image_dir" json:"image_dir"`
}

// DenoisingConfig is the query denoising group. It appears in both the model and the
// trainer section; Model.DenoisingConfig is the copy the builders read.
type DenoisingConfig struct {
	UseDN           bool    `koanf:"use_dn" json:"use_dn"`
	Scalar          int     `koanf:"scalar" json:"scalar"`
	LabelNoiseScale float64 `koanf:"label_noise_scale" json:"label_noise_scale"`
	BoxNoiseScale   float64 `koanf:"box_noise_scale" json:"box_noise_scale"`
	NumPatterns     int     `koanf:"num_patterns" json:"num_patterns"`
}

type ModelConfig struct {
	NumClasses            int     `koanf:"num_classes" json:"num_classes"`
	ReturnIntermediateDec bool    `koanf:"return_intermediate_dec" json:"return_intermediate_dec"`
	Device                string  `koanf:"device" json:"device"`
	Backbone              string  `koanf:"backbone" json:"backbone"`
	TrainBackbone         bool    `koanf:"train_backbone" json:"train_backbone"`
	NumFeatureLevels      int     `koanf:"num_feature_levels" json:"num_feature_levels"`
	Dilation              bool    `koanf:"dilation" json:"dilation"`
	PositionEmbedding     string  `koanf:"position_embedding" json:"position_embedding"`
	Masks                 bool    `koanf:"masks" json:"masks"`
	Mode                  string  `koanf:"mode" json:"mode"`
	NumRangeBins          int     `koanf:"num_range_bins" json:"num_range_bins"`
	RangeMin              float64 `koanf:"range_min" json:"range_min"`
	RangeMax              float64 `koanf:"range_max" json:"range_max"`
	WithBoxRefine         bool    `koanf:"with_box_refine" json:"with_box_refine"`
	TwoStage              bool    `koanf:"two_stage" json:"two_stage"`
	UseDAB                bool    `koanf:"use_dab" json:"use_dab"`
	TwoStageDino          bool    `koanf:"two_stage_dino" json:"two_stage_dino"`
	InitBox               bool    `koanf:"init_box" json:"init_box"`
	EncLayers             int     `koanf:"enc_layers" json:"enc_layers"`
	DecLayers             int     `koanf:"dec_layers" json:"dec_layers"`
	HiddenDim             int     `koanf:"hidden_dim" json:"hidden_dim"`
	DimFeedforward        int     `koanf:"dim_feedforward" json:"dim_feedforward"`
	Dropout               float64 `koanf:"dropout" json:"dropout"`
	NHeads                int     `koanf:"nheads" json:"nheads"`
	NumQueries            int     `koanf:"num_queries" json:"num_queries"`
	EncNPoints            int     `koanf:"enc_n_points" json:"enc_n_points"`
	DecNPoints            int     `koanf:"dec_n_points" json:"dec_n_points"`
	GroupNum              int     `koanf:"group_num" json:"group_num"`

	DenoisingConfig `koanf:",squash,flatten"`

	AuxLoss          bool    `koanf:"aux_loss" json:"aux_loss"`
	ClsLossCoef      float64 `koanf:"cls_loss_coef" json:"cls_loss_coef"`
	BBoxLossCoef     float64 `koanf:"bbox_loss_coef" json:"bbox_loss_coef"`
	GIoULossCoef     float64 `koanf:"giou_loss_coef" json:"giou_loss_coef"`
	CenterLossCoef   float64 `koanf:"3dcenter_loss_coef" json:"3dcenter_loss_coef"`
	DimLossCoef      float64 `koanf:"dim_loss_coef" json:"dim_loss_coef"`
	AngleLossCoef    float64 `koanf:"angle_loss_coef" json:"angle_loss_coef"`
	RangeLossCoef    float64 `koanf:"range_loss_coef" json:"range_loss_coef"`
	RangeMapLossCoef float64 `koanf:"range_map_loss_coef" json:"range_map_loss_coef"`
	RegionLossCoef   float64 `koanf:"region_loss_coef" json:"region_loss_coef"`
	CycleLossCoef    float64 `koanf:"cycle_loss_coef" json:"cycle_loss_coef"`
	FocalAlpha       float64 `koanf:"focal_alpha" json:"focal_alpha"`

	SetCostClass    float64 `koanf:"set_cost_class" json:"set_cost_class"`
	SetCostBBox     float64 `koanf:"set_cost_bbox" json:"set_cost_bbox"`
	SetCostGIoU     float64 `koanf:"set_cost_giou" json:"set_cost_giou"`
	SetCost3DCenter float64 `koanf:"set_cost_3dcenter" json:"set_cost_3dcenter"`

	// ExtraLossCoefs holds *_loss_coef keys accepted through the schema pattern but
	// without a dedicated field, keyed by the full key name.
	ExtraLossCoefs map[string]float64 `koanf:"-" json:"extra_loss_coefs,omitempty"`
}

type OptimizerConfig struct {
	Type        string  `koanf:"type" json:"type"`
	LR          float64 `koanf:"lr" json:"lr"`
	WeightDecay float64 `koanf:"weight_decay" json:"weight_decay"`
}

type LRSchedulerConfig struct {
	Type      string  `koanf:"type" json:"type"`
	Warmup    bool    `koanf:"warmup" json:"warmup"`
	DecayRate float64 `koanf:"decay_rate" json:"decay_rate"`
	DecayList []int   `koanf:"decay_list" json:"decay_list"`
}

type TrainerConfig struct {
	MaxEpoch      int    `koanf:"max_epoch" json:"max_epoch"`
	GPUIDs        string `koanf:"gpu_ids" json:"gpu_ids"`
	SaveFrequency int    `koanf:"save_frequency" json:"save_frequency"`
	SavePath      string `koanf:"save_path" json:"save_path"`
	SaveAll       bool   `koanf:"save_all" json:"save_all"`
	ResumeModel   string `koanf:"resume_model,omitempty" json:"resume_model,omitempty"`
	PretrainModel string `koanf:"pretrain_model,omitempty" json:"pretrain_model,omitempty"`

	DenoisingConfig `koanf:",squash,flatten"`
}

type TesterConfig struct {
	Type       string  `koanf:"type" json:"type"`
	Mode       string  `koanf:"mode" json:"mode"`
	Checkpoint int     `koanf:"checkpoint" json:"checkpoint"`
	Threshold  float64 `koanf:"threshold" json:"threshold"`
	TopK       int     `koanf:"topk" json:"topk"`
}
