// Package invoker 通过描述符动态地构造实例, 读写字段, 调用方法与绑定方法
//
// 参数检查的顺序是固定的: 泛型方法 -> 实例 -> 参数个数 -> 参数类型, 检查都通过之后才会真正调用
// 被调用者返回的error与panic都会被包装为InvocationTargetFailure, 原始的错误可以通过errors.Unwrap取出
package invoker
