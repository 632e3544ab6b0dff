package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/utils"
)

// fileSnapshot JSON数据文件的结构，每次变更写入全量数据
type fileSnapshot struct {
	Products  []models.Product       `json:"products"`
	Users     []fileUser             `json:"users"`
	Movements []models.StockMovement `json:"movements"`
}

// fileUser 用户记录的落盘形式。API模型上的密码字段标记为json:"-"，
// 直接序列化会丢掉密码哈希，这里用外层字段覆盖该标记。
type fileUser struct {
	models.User
	Password string `json:"password"`
}

// OpenFileStore 打开JSON文件存储。内存实现承载全部读写语义，
// 文件驱动只负责启动时加载和每次变更后的落盘，写盘在写锁内串行执行。
func OpenFileStore(path string, policy DeletePolicy) (Store, error) {
	s := newMemoryStore(policy)

	if err := loadSnapshot(s, path); err != nil {
		return nil, err
	}

	s.persist = func() error {
		return writeSnapshot(s, path)
	}

	utils.Logger.Info().Str("path", path).Msg("已打开JSON文件存储")
	return s, nil
}

// loadSnapshot 从数据文件恢复集合，文件不存在视为空库
func loadSnapshot(s *memoryStore, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: 读取数据文件失败: %v", models.ErrStoreUnavailable, err)
	}

	var snapshot fileSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("%w: 数据文件格式无效: %v", models.ErrStoreUnavailable, err)
	}

	for _, p := range snapshot.Products {
		s.products[p.ID] = p
		if p.ID >= s.nextProductID {
			s.nextProductID = p.ID + 1
		}
	}
	for _, fu := range snapshot.Users {
		u := fu.User
		u.Password = fu.Password
		s.users[u.ID] = u
		if u.ID >= s.nextUserID {
			s.nextUserID = u.ID + 1
		}
	}
	s.movements = snapshot.Movements
	for _, m := range snapshot.Movements {
		if m.ID >= s.nextMovementID {
			s.nextMovementID = m.ID + 1
		}
	}

	utils.LogInfo(map[string]interface{}{
		"products":  len(snapshot.Products),
		"users":     len(snapshot.Users),
		"movements": len(snapshot.Movements),
	}, "数据文件加载完成")
	return nil
}

// writeSnapshot 写入全量数据，先写临时文件再原子改名，避免写坏数据文件。
// 调用方必须持有写锁。
func writeSnapshot(s *memoryStore, path string) error {
	snapshot := fileSnapshot{
		Products:  make([]models.Product, 0, len(s.products)),
		Users:     make([]fileUser, 0, len(s.users)),
		Movements: s.movements,
	}
	for _, p := range s.products {
		snapshot.Products = append(snapshot.Products, p)
	}
	for _, u := range s.users {
		snapshot.Users = append(snapshot.Users, fileUser{User: u, Password: u.Password})
	}
	if snapshot.Movements == nil {
		snapshot.Movements = []models.StockMovement{}
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
