package schema

// Names shared with the consumers of the registry.
const (
	DenoisingGroup = "denoising"

	DatasetTypeKey = "dataset.type"
	TesterTypeKey  = "tester.type"
	RangeScaleKey  = "dataset.range_scale"
)

// Default returns a fresh registry describing the MonoRange KITTI run configuration.
// Callers may extend it (ExtendEnum, Register, AddRule) before validating.
func Default() *Registry {
	r := New()

	datasetTypes := NewEnum("dataset type", "KITTI")
	classes := NewEnum("class", "Car", "Pedestrian", "Cyclist", "Van", "Truck", "DontCare")
	splits := NewEnum("split", "train", "val", "trainval", "test", "rain_1")

	r.Register(
		Field{Path: "random_seed", Domain: AtLeast(0), Optional: true, Doc: "global RNG seed"},
		Field{Path: "model_name", Domain: String{NonEmpty: true}, Default: "monorange", Doc: "model builder to use"},
	)

	r.Register(
		Field{Path: DatasetTypeKey, Domain: datasetTypes, Doc: "dataset variant"},
		Field{Path: "dataset.root_dir", Domain: Path{}, Doc: "dataset root"},
		Field{Path: "dataset.train_split", Domain: splits, Default: "train"},
		Field{Path: "dataset.test_split", Domain: splits, Default: "val"},
		Field{Path: "dataset.batch_size", Domain: AtLeast(1)},
		Field{Path: "dataset.use_3d_center", Domain: Bool{}, Default: true},
		Field{Path: "dataset.class_merging", Domain: Bool{}, Default: false, Doc: "adds Van and Truck to the writelist"},
		Field{Path: "dataset.use_dontcare", Domain: Bool{}, Default: false, Doc: "adds DontCare to the writelist"},
		Field{Path: "dataset.bbox2d_type", Domain: NewEnum("2d box source", "anno", "proj"), Default: "anno"},
		Field{Path: "dataset.meanshape", Domain: Bool{}, Default: false},
		Field{Path: "dataset.writelist", Domain: Seq{Elem: classes, MinLen: 1, Unique: true}, Default: []any{"Car"}},
		Field{Path: "dataset.clip_2d", Domain: Bool{}, Default: false},
		Field{Path: "dataset.aug_pd", Domain: Bool{}, Default: false, Doc: "photometric distortion"},
		Field{Path: "dataset.aug_crop", Domain: Bool{}, Default: false},
		Field{Path: "dataset.aug_calib", Domain: Bool{}, Default: false},
		Field{Path: "dataset.random_flip", Domain: Probability(), Default: 0.5},
		Field{Path: "dataset.random_crop", Domain: Probability(), Default: 0.5},
		Field{Path: "dataset.random_mixup3d", Domain: Probability(), Default: 0.5},
		Field{Path: "dataset.scale", Domain: NonNegative(), Default: 0.4},
		Field{Path: "dataset.shift", Domain: NonNegative(), Default: 0.1},
		Field{Path: RangeScaleKey, Domain: NewEnum("range scaling", "normal", "inverse", "none"), Default: "normal"},
		Field{Path: "dataset.image_dir", Domain: Path{}, Default: "image_2", Doc: "image directory under training/ or testing/"},
	)

	r.Register(
		Field{Path: "model.num_classes", Domain: AtLeast(1)},
		Field{Path: "model.return_intermediate_dec", Domain: Bool{}, Default: true},
		Field{Path: "model.device", Domain: NewEnum("device", "cuda", "cpu"), Default: "cuda"},
		Field{Path: "model.backbone", Domain: NewEnum("backbone", "resnet18", "resnet34", "resnet50", "resnet101")},
		Field{Path: "model.train_backbone", Domain: Bool{}, Default: true},
		Field{Path: "model.num_feature_levels", Domain: AtLeast(1)},
		Field{Path: "model.dilation", Domain: Bool{}, Default: false},
		Field{Path: "model.position_embedding", Domain: NewEnum("position embedding", "sine", "learned"), Default: "sine"},
		Field{Path: "model.masks", Domain: Bool{}, Default: false},
		Field{Path: "model.mode", Domain: NewEnum("range discretization", "LID", "UD", "SID"), Default: "LID"},
		Field{Path: "model.num_range_bins", Domain: AtLeast(1)},
		Field{Path: "model.range_min", Domain: Positive()},
		Field{Path: "model.range_max", Domain: Positive()},
		Field{Path: "model.with_box_refine", Domain: Bool{}, Default: false},
		Field{Path: "model.two_stage", Domain: Bool{}, Default: false},
		Field{Path: "model.use_dab", Domain: Bool{}, Default: false},
		Field{Path: "model.two_stage_dino", Domain: Bool{}, Default: false},
		Field{Path: "model.init_box", Domain: Bool{}, Default: false},
		Field{Path: "model.enc_layers", Domain: AtLeast(0)},
		Field{Path: "model.dec_layers", Domain: AtLeast(0)},
		Field{Path: "model.hidden_dim", Domain: AtLeast(1)},
		Field{Path: "model.dim_feedforward", Domain: AtLeast(1)},
		Field{Path: "model.dropout", Domain: FloatBetween(0, 1, false, true), Default: 0.1},
		Field{Path: "model.nheads", Domain: AtLeast(1)},
		Field{Path: "model.num_queries", Domain: AtLeast(1)},
		Field{Path: "model.enc_n_points", Domain: AtLeast(1), Default: 4},
		Field{Path: "model.dec_n_points", Domain: AtLeast(1), Default: 4},
		Field{Path: "model.group_num", Domain: AtLeast(1), Default: 1, Doc: "query groups trained in parallel"},
		Field{Path: "model.aux_loss", Domain: Bool{}, Default: true},
		Field{Path: "model.focal_alpha", Domain: Probability(), Default: 0.25},
	)
	for _, coef := range []string{
		"cls", "bbox", "giou", "3dcenter", "dim", "angle", "range", "range_map", "region", "cycle",
	} {
		r.Register(Field{Path: "model." + coef + "_loss_coef", Domain: NonNegative()})
	}
	for _, cost := range []string{"class", "bbox", "giou", "3dcenter"} {
		r.Register(Field{Path: "model.set_cost_" + cost, Domain: NonNegative()})
	}
	r.RegisterPattern(Pattern{Glob: "model.*_loss_coef", Domain: NonNegative(), Doc: "loss weight"})
	r.RegisterPattern(Pattern{Glob: "model.set_cost_*", Domain: NonNegative(), Doc: "matcher cost"})

	r.RegisterGroup(Group{Name: DenoisingGroup, Fields: []Field{
		{Path: "use_dn", Domain: Bool{}, Default: false},
		{Path: "scalar", Domain: AtLeast(0), Default: 5},
		{Path: "label_noise_scale", Domain: Probability(), Default: 0.2},
		{Path: "box_noise_scale", Domain: NonNegative(), Default: 0.4},
		{Path: "num_patterns", Domain: AtLeast(0), Default: 0},
	}}, "model", "trainer")

	r.Register(
		Field{Path: "optimizer.type", Domain: NewEnum("optimizer", "adam", "adamw", "sgd")},
		Field{Path: "optimizer.lr", Domain: Positive()},
		Field{Path: "optimizer.weight_decay", Domain: NonNegative(), Default: 0.0},
	)

	r.Register(
		Field{Path: "lr_scheduler.type", Domain: NewEnum("scheduler", "step", "cos"), Default: "step"},
		Field{Path: "lr_scheduler.warmup", Domain: Bool{}, Default: false},
		Field{Path: "lr_scheduler.decay_rate", Domain: FloatBetween(0, 1, true, false)},
		Field{Path: "lr_scheduler.decay_list", Domain: Seq{Elem: AtLeast(0), Increasing: true}},
	)

	r.Register(
		Field{Path: "trainer.max_epoch", Domain: AtLeast(1)},
		Field{Path: "trainer.gpu_ids", Domain: DeviceList{}, Default: "0"},
		Field{Path: "trainer.save_frequency", Domain: AtLeast(1)},
		Field{Path: "trainer.save_path", Domain: Path{}, Default: "outputs/"},
		Field{Path: "trainer.save_all", Domain: Bool{}, Default: false},
		Field{Path: "trainer.resume_model", Domain: Path{}, Optional: true},
		Field{Path: "trainer.pretrain_model", Domain: Path{}, Optional: true},
	)

	r.Register(
		Field{Path: TesterTypeKey, Domain: datasetTypes, Doc: "must alias dataset.type"},
		Field{Path: "tester.mode", Domain: NewEnum("test mode", "single", "all"), Default: "single"},
		Field{Path: "tester.checkpoint", Domain: AtLeast(1)},
		Field{Path: "tester.threshold", Domain: Probability()},
		Field{Path: "tester.topk", Domain: AtLeast(1)},
	)
	r.Link(TesterTypeKey, DatasetTypeKey)

	for _, rule := range defaultRules() {
		r.AddRule(rule)
	}
	return r
}
