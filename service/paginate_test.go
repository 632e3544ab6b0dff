package service

import "testing"

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	page, p := Paginate(items, 2, 3)
	if len(page) != 3 || page[0] != 3 || page[2] != 5 {
		t.Errorf("page = %v, 期望 [3 4 5]", page)
	}
	if p.Total != 10 || !p.HasMore || !p.HasPrevious {
		t.Errorf("pagination = %+v", p)
	}
}

func TestPaginateDefaults(t *testing.T) {
	items := []int{1, 2, 3}

	// limit非正表示取剩余全部
	page, p := Paginate(items, 0, 0)
	if len(page) != 3 {
		t.Errorf("limit=0 应返回全部, got %v", page)
	}
	if p.HasMore || p.HasPrevious {
		t.Errorf("单页结果不应有前后页: %+v", p)
	}

	// offset为负取0
	page, _ = Paginate(items, -5, 2)
	if len(page) != 2 || page[0] != 1 {
		t.Errorf("负offset应按0处理, got %v", page)
	}
}

func TestPaginateOutOfRange(t *testing.T) {
	items := []int{1, 2, 3}

	page, p := Paginate(items, 10, 5)
	if len(page) != 0 {
		t.Errorf("越界offset应返回空页, got %v", page)
	}
	if p.Total != 3 || p.HasMore {
		t.Errorf("pagination = %+v", p)
	}
}

func TestPaginateLastPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, p := Paginate(items, 4, 3)
	if len(page) != 1 || page[0] != 5 {
		t.Errorf("末页应截断到余量, got %v", page)
	}
	if p.HasMore {
		t.Error("末页不应标记HasMore")
	}
	if !p.HasPrevious {
		t.Error("末页应标记HasPrevious")
	}
}

func TestPaginateEmpty(t *testing.T) {
	page, p := Paginate([]int{}, 0, 10)
	if len(page) != 0 || p.Total != 0 || p.HasMore || p.HasPrevious {
		t.Errorf("空集合分页异常: page=%v pagination=%+v", page, p)
	}
}
