// backend/models/userModel.go
package models

// User é um usuário administrador identificado pela matrícula.
// As flags admin_padrao e admin_super são independentes: um admin_super
// também pode autenticar-se como admin_padrao.
type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Matricula   string `gorm:"size:20;uniqueIndex;not null" json:"matricula"`
	Nome        string `gorm:"size:100;not null" json:"nome"`
	Senha       string `gorm:"size:100;not null" json:"-"`
	SenhaPadrao bool   `gorm:"column:senha_padrao;not null;default:true" json:"senha_padrao"`
	AdminPadrao bool   `gorm:"column:admin_padrao;not null;default:false" json:"admin_padrao"`
	AdminSuper  bool   `gorm:"column:admin_super;not null;default:false" json:"admin_super"`
}

func (User) TableName() string { return "usuarios" }
