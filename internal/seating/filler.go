package seating

// RoomGroup 分配到某个考场的学生子序列
type RoomGroup struct {
	Room     RoomRef
	Students []StudentRef
}

// Fill 按输入顺序依次装填考场。
//
// 每个考场从剩余学生队首取 min(实际可用容量, 剩余人数) 人，保持学生原有顺序；
// 学生分完即停止，其后的考场不产生分组。实际可用容量为 0 的考场直接跳过。
// 总容量是否足够由调用方事先校验（见 Validate），Fill 本身不报错。
func Fill(students []StudentRef, rooms []RoomRef) []RoomGroup {
	groups := make([]RoomGroup, 0, len(rooms))
	next := 0
	for _, room := range rooms {
		if next >= len(students) {
			break
		}
		quota := room.EffectiveCapacity()
		if quota == 0 {
			continue
		}
		end := min(next+quota, len(students))
		groups = append(groups, RoomGroup{
			Room:     room,
			Students: students[next:end:end],
		})
		next = end
	}
	return groups
}
