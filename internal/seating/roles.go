package seating

// AssignRoles 为每个考场分配 chief / main / junior 三个监考岗位。
//
// 人员池按职级拆分为三个子池（保持输入顺序），第 i 个考场取各子池的 [i mod 子池大小]；
// 子池为空时该岗位在所有考场都不分配。
//
// 子池小于考场数时同一人会被分配到多个考场。这是有意为之的排班策略：
// 考务现场通常由一名主监考名义上覆盖多个并行考场。单人可覆盖的考场数没有上限，
// 是否需要上限由运营方确认。
func AssignRoles(roomAssignmentIDs []string, staff []StaffRef) []RoleAssignment {
	var chiefs, mains, juniors []string
	for _, s := range staff {
		switch s.Rank {
		case RankChief:
			chiefs = append(chiefs, s.ID)
		case RankMain:
			mains = append(mains, s.ID)
		case RankJunior:
			juniors = append(juniors, s.ID)
		}
	}

	pools := []struct {
		role Role
		ids  []string
	}{
		{RoleChief, chiefs},
		{RoleMain, mains},
		{RoleJunior, juniors},
	}

	result := make([]RoleAssignment, 0, len(roomAssignmentIDs)*len(pools))
	for i, raID := range roomAssignmentIDs {
		for _, p := range pools {
			if len(p.ids) == 0 {
				continue
			}
			result = append(result, RoleAssignment{
				RoomAssignmentID: raID,
				StaffID:          p.ids[i%len(p.ids)],
				Role:             p.role,
			})
		}
	}
	return result
}

// RankCounts 统计各职级人数
func RankCounts(staff []StaffRef) map[Rank]int {
	counts := map[Rank]int{RankChief: 0, RankMain: 0, RankJunior: 0}
	for _, s := range staff {
		if _, ok := counts[s.Rank]; ok {
			counts[s.Rank]++
		}
	}
	return counts
}
