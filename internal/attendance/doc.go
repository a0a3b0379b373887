// Package attendance 出勤规则的纯函数实现：地理围栏距离、
// 排班时段判断、时刻解析、ISO 日历工具与工时汇总。
// 不访问存储，也不读取系统时钟。
package attendance
