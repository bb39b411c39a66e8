package reservation

// ServiceFeePercent は宿泊料金に上乗せするサービス手数料（%）
const ServiceFeePercent = 10

// TotalPrice は宿泊料金の合計をセント単位で計算する
// 合計 = 1泊料金 × 泊数 + サービス手数料10%
// 端数は最後に1回だけセント単位へ四捨五入する
func TotalPrice(nightlyRate int64, nights int) int64 {
	base := nightlyRate * int64(nights)
	return (base*(100+ServiceFeePercent) + 50) / 100
}
