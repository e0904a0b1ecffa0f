// Package model はドメインモデルを定義する。
package model

// User はサービス利用ユーザーを表す。
// 主キーは外部IdP（Google）が発行するsubjectで、初回ログイン時に作成される。
// 削除経路は存在しない。
type User struct {
	ID       string // IdPが発行するsubject（不透明な文字列）
	Username string // ログインのたびに最新の表示名で更新される
}

// Identity は検証済みIDトークンから取り出したユーザー情報を表す。
// 認証ミドルウェアを通過したリクエストのコンテキストに格納される。
type Identity struct {
	Subject string
	Name    string
}

// UpsertResult はユーザーアップサートの結果種別を表す。
type UpsertResult string

const (
	// UpsertCreated は新規ユーザーが作成されたことを示す。
	UpsertCreated UpsertResult = "created"
	// UpsertUpdated は既存ユーザーの表示名が更新されたことを示す。
	UpsertUpdated UpsertResult = "updated"
)
