package core

import "context"

// LabelEncoder 是类别特征编码器：把训练词表中的标签映射为整数编码。
// 标签不在词表中时必须返回 UNSEEN_LABEL 错误。
type LabelEncoder interface {
	Encode(label string) (int, error)
}

// Classifier 是二分类器的领域接口。
//
// PredictProbability 输入特征向量，返回 [p_reject, p_admit]。
// 实现可以是本地模型（LR）、远程推理服务（HTTP）或缓存查表；
// 如果实现本身不支持并发推理，需要由调用方串行化（见 model.Serialized）。
type Classifier interface {
	Name() string
	PredictProbability(ctx context.Context, vector []float64) ([]float64, error)
}
