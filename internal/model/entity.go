package model

// MultiTenantEntity はアプリDBに保存されるすべてのエンティティが実装します。
type MultiTenantEntity interface {
	GetTenantID() int64
	SetTenantID(id int64)
}

// TenantOwned は MultiTenantEntity を満たす埋め込み用の構造体です。
// SharedDb では所有テナントのID、スキーマ/専用DB分離では 0 が入ります。
type TenantOwned struct {
	TenantID int64 `gorm:"not null;index" json:"-"`
}

func (o *TenantOwned) GetTenantID() int64 {
	return o.TenantID
}

func (o *TenantOwned) SetTenantID(id int64) {
	o.TenantID = id
}
