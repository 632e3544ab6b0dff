package service

import "github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"

// Paginate 对筛选排序后的集合做偏移/限量切片。
// offset为负时取0，limit非正时表示不限量取剩余全部。
// 分页元数据基于传入集合（筛选后）的总数计算，而不是全量数据。
func Paginate[T any](items []T, offset, limit int) ([]T, models.Pagination) {
	total := len(items)

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = total - offset
		if limit < 0 {
			limit = 0
		}
	}

	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return items[start:end], models.Pagination{
		Total:       total,
		Offset:      offset,
		Limit:       limit,
		HasMore:     offset+limit < total,
		HasPrevious: offset > 0,
	}
}
